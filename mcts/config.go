package mcts

import (
	"github.com/treebatch/metrics"
)

const (
	// DefaultGroupSize is the number of workers sharing a scratch slab.
	DefaultGroupSize = 8

	// DefaultScratchCeiling is the per-group fast-memory budget the launch
	// check enforces, in bytes.
	DefaultScratchCeiling = 64 << 10
)

// Config configures kernel launches. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// GroupSize is the number of tree workers sharing one scratch slab.
	GroupSize int `json:"group_size"`
	// ScratchCeiling bounds a group's scratch slab, in bytes. Launches
	// whose slab would reach the ceiling are rejected before any work.
	ScratchCeiling int `json:"scratch_ceiling"`
	// Debug enables best-effort bounds diagnostics on child/parent
	// indices. Diagnostic only: out-of-range indices are a bug in the
	// tree-management caller, not something the kernels recover from.
	Debug bool `json:"debug"`

	// Stats receives solver and traversal events. Defaults to a no-op.
	Stats metrics.Collector `json:"-"`
}

func DefaultConfig() Config {
	return Config{
		GroupSize:      DefaultGroupSize,
		ScratchCeiling: DefaultScratchCeiling,
		Stats:          metrics.NewDummyCollector(),
	}
}

func (c Config) IsValid() bool {
	return c.GroupSize > 0 && c.ScratchCeiling > 0
}

// stats never returns nil, so kernel code can report unconditionally.
func (c Config) stats() metrics.Collector {
	if c.Stats == nil {
		return metrics.NewDummyCollector()
	}
	return c.Stats
}
