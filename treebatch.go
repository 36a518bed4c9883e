// Package treebatch is the inner numerical loop of a batched Monte Carlo
// Tree Search: B independent trees searched at once over a fixed-capacity,
// pre-allocated node arena. The three operations — Root, Descend, Backup —
// share one abstraction, a per-node regularized policy solved by
// Newton-Raphson. Growing the trees between calls is the caller's job; so
// is evaluating the leaves the descent finds.
package treebatch

import (
	"gorgonia.org/tensor"

	"github.com/treebatch/mcts"
	"github.com/treebatch/metrics"
)

// Engine is the entry point of the API: a thin facade that marshals tensor
// arguments, dispatches kernels, and owns the statistics collector.
type Engine struct {
	conf  Config
	stats metrics.Collector
}

// New builds an Engine. Like the rest of the package's constructors it
// panics on an invalid config: there is nothing sensible to do with one.
func New(conf Config) *Engine {
	if !conf.IsValid() {
		panic("treebatch: config is not valid. Unable to proceed")
	}

	stats := metrics.NewDummyCollector()
	if conf.CollectStats {
		stats = metrics.NewCollector()
	}
	if conf.Kernel.Stats == nil {
		conf.Kernel.Stats = stats
	}
	return &Engine{conf: conf, stats: conf.Kernel.Stats}
}

// Root returns the regularized policy at every tree's root, shape [B,A].
func (e *Engine) Root(bt *mcts.Batch) (*tensor.Dense, error) {
	probs, err := mcts.Root(bt, e.conf.Kernel)
	if err != nil {
		return nil, err
	}
	return tensor.New(tensor.WithShape(bt.B, bt.A), tensor.WithBacking(probs)), nil
}

// Descend walks every tree to its expansion point. draws must be a Float32
// [B,T] tensor of independent uniform samples in [0,1); see UniformDraws.
// The returned tensors are Int32 [B]: the stopping parent and the sampled
// action per tree, with -1 encoding the degenerate no-action case.
func (e *Engine) Descend(bt *mcts.Batch, draws *tensor.Dense) (parents, actions *tensor.Dense, err error) {
	dv, err := f32View("draws", draws, bt.B, bt.T)
	if err != nil {
		return nil, nil, err
	}

	pv, av, err := mcts.Descend(bt, dv, e.conf.Kernel)
	if err != nil {
		return nil, nil, err
	}
	parents = tensor.New(tensor.WithShape(bt.B), tensor.WithBacking(pv))
	actions = tensor.New(tensor.WithShape(bt.B), tensor.WithBacking(av))
	return parents, actions, nil
}

// Backup seeds each tree's walk with v, a Float32 [B,T,S] tensor of leaf
// value estimates, starting from the Int32 [B] leaves. Visit counts and
// value sums are updated in place through the batch's backing arrays.
func (e *Engine) Backup(bt *mcts.Batch, v, leaves *tensor.Dense) error {
	vv, err := f32View("v", v, bt.B, bt.T, bt.S)
	if err != nil {
		return err
	}
	lv, err := i32View("leaves", leaves, bt.B)
	if err != nil {
		return err
	}
	return mcts.Backup(bt, vv, lv, e.conf.Kernel)
}

// Stats reports what the collector has seen so far. All zeroes unless the
// Engine was built with CollectStats.
func (e *Engine) Stats() Summary {
	return e.stats.Summary()
}
