package mcts

// ref is a possibly-absent node reference. It replaces raw -1 sentinels in
// the kernel code: the only way to turn a ref into an array index is to check
// valid() first. At the array boundary an absent ref is still encoded as -1.
type ref int32

const noRef ref = -1

func (r ref) valid() bool { return r >= 0 }

func (r ref) index() int { return int(r) }
