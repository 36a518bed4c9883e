package mcts

import (
	"gorgonia.org/vecf32"
)

// Backup propagates each tree's evaluated leaf value up to the root. v is
// the externally supplied value estimate, [B,T,S]; leaves names the starting
// node per tree. Walking parent refs to the root, each visited node gets its
// visit count bumped and the running value added to its value sums.
// Terminal nodes discard the running value first: a terminal node's outcome
// is its own reward, not whatever the evaluator guessed below it.
//
// Trees never share nodes, so updates across the batch are race-free; a
// node's updates are strictly additive across calls.
func Backup(bt *Batch, v []float32, leaves []int32, conf Config) error {
	p, err := newPlan(bt, conf)
	if err != nil {
		return err
	}

	p.run(bt.B, func(b int, sc *scratch) {
		backupOne(bt, v, leaves, b, conf)
	})
	return nil
}

// backupOne walks one tree, carrying the running value vector.
func backupOne(bt *Batch, v []float32, leaves []int32, b int, conf Config) {
	leaf := ref(leaves[b])
	if !leaf.valid() {
		return
	}

	run := make([]float32, bt.S)
	copy(run, v[bt.node(b, leaf.index())*bt.S:])

	for current := leaf; current.valid(); current = bt.parent(b, current.index()) {
		t := current.index()
		if bt.Terminal[bt.node(b, t)] {
			for i := range run {
				run[i] = 0
			}
		}
		vecf32.Add(run, bt.rewards(b, t))

		bt.N[bt.node(b, t)]++
		vecf32.Add(bt.w(b, t), run)

		if conf.Debug {
			checkRef("parent", bt.parent(b, t), bt.T, b, t)
		}
	}
}
