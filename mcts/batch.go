package mcts

// Batch is a fixed-capacity arena of B independent trees, T nodes per tree,
// A actions per node and S value channels (one per seat). Everything is laid
// out flat, structure-of-arrays style, without much pointer chasing. Node 0
// is always the root of its tree; absent children/parents are encoded as -1.
//
// The kernels in this package only read the topology arrays and
// read-modify-write N and W. Growing the arena is the caller's business.
type Batch struct {
	B, T, A, S int

	Logits   []float32 // [B,T,A] unnormalized log action-weights
	W        []float32 // [B,T,S] cumulative backed-up value per seat
	N        []int32   // [B,T]   visit counts
	CPuct    []float32 // [B]     per-tree exploration scale
	Seats    []int32   // [B,T]   deciding seat per node
	Terminal []bool    // [B,T]   game-over flags
	Children []int32   // [B,T,A] child node per action, -1 if unexpanded
	Parents  []int32   // [B,T]   parent node, -1 at the root
	Rewards  []float32 // [B,T,S] immediate reward per node
}

// NewBatch allocates a zeroed arena. Children and Parents start fully
// absent, which is what an arena of unexpanded roots looks like.
func NewBatch(b, t, a, s int) *Batch {
	bt := &Batch{
		B:        b,
		T:        t,
		A:        a,
		S:        s,
		Logits:   make([]float32, b*t*a),
		W:        make([]float32, b*t*s),
		N:        make([]int32, b*t),
		CPuct:    make([]float32, b),
		Seats:    make([]int32, b*t),
		Terminal: make([]bool, b*t),
		Children: make([]int32, b*t*a),
		Parents:  make([]int32, b*t),
		Rewards:  make([]float32, b*t*s),
	}
	for i := range bt.Children {
		bt.Children[i] = int32(noRef)
	}
	for i := range bt.Parents {
		bt.Parents[i] = int32(noRef)
	}
	return bt
}

// node flattens a (tree, node) pair into the [B,T] arrays.
func (bt *Batch) node(b, t int) int { return b*bt.T + t }

// logits returns node (b,t)'s action-weight row.
func (bt *Batch) logits(b, t int) []float32 {
	at := bt.node(b, t) * bt.A
	return bt.Logits[at : at+bt.A]
}

// children returns node (b,t)'s child row.
func (bt *Batch) children(b, t int) []int32 {
	at := bt.node(b, t) * bt.A
	return bt.Children[at : at+bt.A]
}

// w returns node (b,t)'s per-seat value sums.
func (bt *Batch) w(b, t int) []float32 {
	at := bt.node(b, t) * bt.S
	return bt.W[at : at+bt.S]
}

// rewards returns node (b,t)'s per-seat reward vector.
func (bt *Batch) rewards(b, t int) []float32 {
	at := bt.node(b, t) * bt.S
	return bt.Rewards[at : at+bt.S]
}

func (bt *Batch) child(b, t, a int) ref { return ref(bt.children(b, t)[a]) }

func (bt *Batch) parent(b, t int) ref { return ref(bt.Parents[bt.node(b, t)]) }
