package mcts

import (
	"sync"

	"github.com/pkg/errors"
)

// floatBytes is sizeof(float32) on every platform we care about.
const floatBytes = 4

// plan is one kernel launch: B workers, one per tree, partitioned into
// fixed-size groups. Each group owns a contiguous scratch slab and each
// worker owns the 2·A-float slot at its in-group offset for the duration of
// the invocation. Slots are disjoint, so no intra-group synchronization is
// needed beyond the final join.
type plan struct {
	groupSize int
	perWorker int // floats per slot
	slabs     [][]float32
}

// newPlan verifies the scratch budget and allocates the group slabs. The
// budget check is a hard launch precondition: a slab at or over the ceiling
// is an error, never a silent truncation.
func newPlan(bt *Batch, conf Config) (*plan, error) {
	perWorker := 2 * bt.A
	slabBytes := conf.GroupSize * perWorker * floatBytes
	if slabBytes >= conf.ScratchCeiling {
		return nil, errors.Errorf(
			"scratch slab %d bytes (group %d × %d actions) exceeds ceiling %d",
			slabBytes, conf.GroupSize, bt.A, conf.ScratchCeiling)
	}

	groups := (bt.B + conf.GroupSize - 1) / conf.GroupSize
	slabs := make([][]float32, groups)
	for g := range slabs {
		slabs[g] = make([]float32, conf.GroupSize*perWorker)
	}
	return &plan{groupSize: conf.GroupSize, perWorker: perWorker, slabs: slabs}, nil
}

// scratchFor carves worker b's slot out of its group's slab.
func (p *plan) scratchFor(b int) *scratch {
	slab := p.slabs[b/p.groupSize]
	at := (b % p.groupSize) * p.perWorker
	slot := slab[at : at+p.perWorker]
	half := p.perWorker / 2
	return &scratch{pi: slot[:half], q: slot[half:]}
}

// run executes fn once per tree and waits for the whole batch. Trees are
// fully independent, so this is embarrassingly parallel; the join is also
// the memory-visibility barrier for anything the workers wrote.
func (p *plan) run(b int, fn func(worker int, sc *scratch)) {
	var wg sync.WaitGroup
	for i := 0; i < b; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			fn(worker, p.scratchFor(worker))
		}(i)
	}
	wg.Wait()
}
