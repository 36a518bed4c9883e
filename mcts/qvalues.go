package mcts

import (
	"github.com/chewxy/math32"
	"gorgonia.org/vecf32"
)

// epsilon keeps w/n and the min-max rescale finite at zero visits and zero
// spread.
const epsilon = 1e-6

// normalizedQ computes q̂[b,t,s] = w[b,t,s]/(n[b,t]+ε), min-max normalized
// into [0,1]. The min and max are taken over the ENTIRE batch, not per tree:
// a single outlier tree shifts every other tree's scaling, coupling
// otherwise-independent trees statistically. Deliberate trade: one reduction
// pass per launch instead of one per node.
func normalizedQ(bt *Batch) []float32 {
	q := make([]float32, bt.B*bt.T*bt.S)
	for bn := 0; bn < bt.B*bt.T; bn++ {
		inv := 1 / (float32(bt.N[bn]) + epsilon)
		for s := 0; s < bt.S; s++ {
			q[bn*bt.S+s] = bt.W[bn*bt.S+s] * inv
		}
	}

	min, max := math32.Inf(1), math32.Inf(-1)
	for _, v := range q {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if len(q) == 0 {
		return q
	}

	vecf32.Trans(q, -min)
	vecf32.Scale(q, 1/(max-min+epsilon))
	return q
}
