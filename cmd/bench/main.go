// Command bench times descents and backups over a synthetic batch of
// partially grown trees.
package main

import (
	"flag"
	"log"
	"time"

	rng "github.com/leesper/go_rng"
	"gorgonia.org/tensor"

	treebatch "github.com/treebatch"
	"github.com/treebatch/mcts"
)

var (
	nTrees   = flag.Int("trees", 1024, "trees in the batch (B)")
	nNodes   = flag.Int("nodes", 64, "node capacity per tree (T)")
	nActions = flag.Int("actions", 8, "actions per node (A)")
	nSeats   = flag.Int("seats", 2, "value channels (S)")
	iters    = flag.Int("iters", 100, "descend+backup rounds to time")
	seed     = flag.Int64("seed", 1, "rng seed")
	stats    = flag.Bool("stats", false, "collect and print solver statistics")
)

func main() {
	flag.Parse()

	B, T, A, S := *nTrees, *nNodes, *nActions, *nSeats

	conf := treebatch.DefaultConfig()
	conf.Seed = *seed
	conf.CollectStats = *stats
	engine := treebatch.New(conf)

	batch, v, err := synthesize(B, T, A, S, *seed)
	if err != nil {
		log.Fatalf("building batch: %s", err)
	}

	start := time.Now()
	for i := 0; i < *iters; i++ {
		draws := treebatch.UniformDraws(B, T, *seed+int64(i))
		parents, _, err := engine.Descend(batch, draws)
		if err != nil {
			log.Fatalf("descend: %s", err)
		}
		if err := engine.Backup(batch, v, parents); err != nil {
			log.Fatalf("backup: %s", err)
		}
	}
	elapsed := time.Since(start)

	samples := *iters * B
	log.Printf("%dms total, %dns/descent", elapsed.Milliseconds(), elapsed.Nanoseconds()/int64(samples))
	if *stats {
		log.Printf("solver stats: %+v", engine.Stats())
	}
}

// synthesize grows a random forest in place: every tree gets a run of
// expansions at random (parent, action) slots, random priors, small visit
// counts and random value sums, plus the odd terminal node.
func synthesize(B, T, A, S int, seed int64) (*mcts.Batch, *tensor.Dense, error) {
	u := rng.NewUniformGenerator(seed)

	logits := make([]float32, B*T*A)
	w := make([]float32, B*T*S)
	n := make([]int32, B*T)
	cPuct := make([]float32, B)
	seats := make([]int32, B*T)
	terminal := make([]bool, B*T)
	children := make([]int32, B*T*A)
	parents := make([]int32, B*T)
	rewards := make([]float32, B*T*S)
	v := make([]float32, B*T*S)

	for i := range children {
		children[i] = -1
	}
	for i := range parents {
		parents[i] = -1
	}
	for i := range logits {
		logits[i] = u.Float32Range(-2, 2)
	}
	for i := range v {
		v[i] = u.Float32()
		w[i] = u.Float32()
		rewards[i] = u.Float32Range(-0.1, 0.1)
	}

	for b := 0; b < B; b++ {
		cPuct[b] = 2.5

		// Expand about half the arena, one node at a time, the way the
		// host side would between search calls.
		next := 1
		for next < T/2 {
			p := int(u.Int32n(int32(next)))
			a := int(u.Int32n(int32(A)))
			at := (b*T+p)*A + a
			if children[at] != -1 || terminal[b*T+p] {
				continue
			}
			children[at] = int32(next)
			parents[b*T+next] = int32(p)
			n[b*T+next] = int32(u.Int32n(8))
			seats[b*T+next] = int32(u.Int32n(int32(S)))
			terminal[b*T+next] = u.Float32() < 0.05
			next++
		}
		n[b*T] = int32(T / 2)
	}

	batch, err := treebatch.MarshalTrees(
		tensor.New(tensor.WithShape(B, T, A), tensor.WithBacking(logits)),
		tensor.New(tensor.WithShape(B, T, S), tensor.WithBacking(w)),
		tensor.New(tensor.WithShape(B, T), tensor.WithBacking(n)),
		tensor.New(tensor.WithShape(B), tensor.WithBacking(cPuct)),
		tensor.New(tensor.WithShape(B, T), tensor.WithBacking(seats)),
		tensor.New(tensor.WithShape(B, T), tensor.WithBacking(terminal)),
		tensor.New(tensor.WithShape(B, T, A), tensor.WithBacking(children)),
		tensor.New(tensor.WithShape(B, T), tensor.WithBacking(parents)),
		tensor.New(tensor.WithShape(B, T, S), tensor.WithBacking(rewards)),
	)
	if err != nil {
		return nil, nil, err
	}
	return batch, tensor.New(tensor.WithShape(B, T, S), tensor.WithBacking(v)), nil
}
