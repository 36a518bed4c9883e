package mcts

// Root computes the regularized policy at node 0 of every tree and returns
// it flat, [B,A]. This is the externally visible action distribution, used
// for move selection and as a training target. No tree state is mutated.
func Root(bt *Batch, conf Config) ([]float32, error) {
	p, err := newPlan(bt, conf)
	if err != nil {
		return nil, err
	}

	qhat := normalizedQ(bt)
	probs := make([]float32, bt.B*bt.A)

	p.run(bt.B, func(b int, sc *scratch) {
		sc.policy(bt, qhat, b, 0, conf, probs[b*bt.A:(b+1)*bt.A])
	})
	return probs, nil
}
