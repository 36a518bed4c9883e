// Package metrics collects solver and traversal statistics for offline
// analysis of kernel behavior. Production launches use the dummy collector,
// which costs nothing.
package metrics

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Collector receives per-worker events from the kernels. Implementations
// must be safe for concurrent use: every tree's worker reports into the same
// collector.
type Collector interface {
	// AddSolve records one Newton solve: how many iterations it ran and
	// whether it hit the residual tolerance before the iteration cap.
	AddSolve(iterations int, converged bool)
	// AddDescent records the depth at which one tree's walk stopped.
	AddDescent(depth int)
	Summary() Summary
}

// Summary aggregates everything a collector saw.
type Summary struct {
	Solves          int
	ConvergenceRate float64
	MeanIterations  float64
	P90Iterations   float64
	Descents        int
	MeanDepth       float64
	MaxDepth        int
}

type collector struct {
	mu         sync.Mutex
	iterations []float64
	converged  int
	depths     []float64
	maxDepth   int
}

func NewCollector() Collector { return &collector{} }

func (c *collector) AddSolve(iterations int, converged bool) {
	c.mu.Lock()
	c.iterations = append(c.iterations, float64(iterations))
	if converged {
		c.converged++
	}
	c.mu.Unlock()
}

func (c *collector) AddDescent(depth int) {
	c.mu.Lock()
	c.depths = append(c.depths, float64(depth))
	if depth > c.maxDepth {
		c.maxDepth = depth
	}
	c.mu.Unlock()
}

func (c *collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{
		Solves:   len(c.iterations),
		Descents: len(c.depths),
		MaxDepth: c.maxDepth,
	}
	if s.Solves > 0 {
		s.ConvergenceRate = float64(c.converged) / float64(s.Solves)
		s.MeanIterations = stat.Mean(c.iterations, nil)

		sorted := append([]float64(nil), c.iterations...)
		sort.Float64s(sorted)
		s.P90Iterations = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	}
	if s.Descents > 0 {
		s.MeanDepth = stat.Mean(c.depths, nil)
	}
	return s
}

type dummy struct{}

// NewDummyCollector returns a no-op Collector.
func NewDummyCollector() Collector { return dummy{} }

func (dummy) AddSolve(int, bool) {}
func (dummy) AddDescent(int)     {}
func (dummy) Summary() Summary   { return Summary{} }
