package mcts

// Descend walks every tree from its root toward an unexpanded slot or a
// terminal node, sampling one action per visited node from that node's
// regularized policy. It returns, per tree, the (parent, action) pair at
// which the walk stopped; that is where the caller should expand.
//
// draws must hold one independent uniform sample in [0,1) per (tree, node)
// pair, laid out [B,T] and indexed by the node being sampled at. The kernel
// never generates randomness of its own.
//
// A terminal root stops the walk immediately with parent 0 and action -1;
// callers must handle a terminal root explicitly. An all-zero policy also
// yields action -1: that is an external data error, not something handled
// here.
func Descend(bt *Batch, draws []float32, conf Config) (parents, actions []int32, err error) {
	p, err := newPlan(bt, conf)
	if err != nil {
		return nil, nil, err
	}

	qhat := normalizedQ(bt)
	parents = make([]int32, bt.B)
	actions = make([]int32, bt.B)

	p.run(bt.B, func(b int, sc *scratch) {
		parent, action, depth := descendOne(bt, qhat, draws, b, sc, conf)
		parents[b] = int32(parent)
		actions[b] = action
		conf.stats().AddDescent(depth)
	})
	return parents, actions, nil
}

func descendOne(bt *Batch, qhat, draws []float32, b int, sc *scratch, conf Config) (parent int, action int32, depth int) {
	current := ref(0)
	action = int32(noRef)

	for current.valid() && !bt.Terminal[bt.node(b, current.index())] {
		t := current.index()
		a := sampleAction(bt, qhat, b, t, draws[bt.node(b, t)], sc, conf)
		parent, action = t, a
		depth++
		if a < 0 {
			break
		}

		next := bt.child(b, t, int(a))
		if conf.Debug {
			checkRef("child", next, bt.T, b, t)
		}
		current = next
	}
	return parent, action, depth
}

// sampleAction draws one action at node (b,t) by inverse-CDF sampling: the
// first action whose cumulative probability reaches the draw wins. Summing
// reciprocals on float32 can leave the CDF short of a draw near 1, so the
// last action seen with strictly positive probability is kept as a
// fallback; it is returned whenever the scan comes up empty. Only a policy
// with no positive mass at all returns -1.
func sampleAction(bt *Batch, qhat []float32, b, t int, draw float32, sc *scratch, conf Config) int32 {
	lambdaN := sc.stage(bt, qhat, b, t)
	alpha, iters, converged := solveAlpha(sc.pi, sc.q, lambdaN)
	conf.stats().AddSolve(iters, converged)

	valid := int32(noRef)
	var total float32
	for a := 0; a < bt.A; a++ {
		p := prob(sc.pi[a], sc.q[a], lambdaN, alpha)
		if p > 0 {
			valid = int32(a)
		}
		total += p
		if total >= draw {
			return int32(a)
		}
	}
	return valid
}
