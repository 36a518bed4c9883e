package treebatch

import (
	rng "github.com/leesper/go_rng"
	"gorgonia.org/tensor"
)

// UniformDraws builds the [B,T] tensor of independent uniform samples in
// [0,1) that Descend consumes: one draw per (tree, node) pair, indexed by
// the node being sampled at. A fixed seed gives reproducible descents.
func UniformDraws(b, t int, seed int64) *tensor.Dense {
	u := rng.NewUniformGenerator(seed)
	backing := make([]float32, b*t)
	for i := range backing {
		backing[i] = u.Float32()
	}
	return tensor.New(tensor.WithShape(b, t), tensor.WithBacking(backing))
}
