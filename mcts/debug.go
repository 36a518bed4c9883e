package mcts

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// checkRef logs a warning when a node reference escapes the arena. Best
// effort only: an out-of-range index is a logic bug in whoever grew the
// tree, and the kernels make no attempt to recover from it.
func checkRef(kind string, r ref, limit, b, t int) {
	if !r.valid() || r.index() < limit {
		return
	}
	log.Warn().
		Str("kind", kind).
		Int("tree", b).
		Int("node", t).
		Int("ref", r.index()).
		Int("capacity", limit).
		Msg("node reference out of range")
}

// DOT renders tree b's expanded topology as a graphviz digraph, nodes
// labelled with visit counts. Debugging aid for inspecting a single tree
// out of the batch.
func DOT(bt *Batch, b int) (string, error) {
	if b < 0 || b >= bt.B {
		return "", errors.Errorf("tree %d out of range [0, %d)", b, bt.B)
	}

	g := gographviz.NewGraph()
	name := fmt.Sprintf("tree%d", b)
	if err := g.SetName(name); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	for t := 0; t < bt.T; t++ {
		if t != 0 && !bt.parent(b, t).valid() {
			continue // unallocated slot
		}
		label := fmt.Sprintf("\"%d (n=%d)\"", t, bt.N[bt.node(b, t)])
		if err := g.AddNode(name, nodeID(t), map[string]string{"label": label}); err != nil {
			return "", err
		}
	}

	for t := 0; t < bt.T; t++ {
		if t != 0 && !bt.parent(b, t).valid() {
			continue
		}
		for a := 0; a < bt.A; a++ {
			child := bt.child(b, t, a)
			if !child.valid() {
				continue
			}
			attrs := map[string]string{"label": fmt.Sprintf("\"%d\"", a)}
			if err := g.AddEdge(nodeID(t), nodeID(child.index()), true, attrs); err != nil {
				return "", err
			}
		}
	}
	return g.String(), nil
}

func nodeID(t int) string { return fmt.Sprintf("n%d", t) }
