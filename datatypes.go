package treebatch

import (
	"github.com/treebatch/mcts"
	"github.com/treebatch/metrics"
)

// Config for the Engine. It mostly forwards to the kernel launch
// configuration; Seed feeds the uniform draw generator.
type Config struct {
	Name   string      `json:"name"`
	Kernel mcts.Config `json:"kernel_conf"`
	Seed   int64       `json:"seed"`

	// CollectStats swaps the no-op collector for a real one, at the cost
	// of a mutex touch per solve.
	CollectStats bool `json:"collect_stats"`
}

func DefaultConfig() Config {
	return Config{
		Name:   "treebatch",
		Kernel: mcts.DefaultConfig(),
	}
}

func (c Config) IsValid() bool {
	return c.Kernel.IsValid()
}

// Summary re-exports the collector summary type for callers that only
// import the root package.
type Summary = metrics.Summary
