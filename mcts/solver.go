package mcts

import (
	"github.com/chewxy/math32"
)

const (
	// maxNewtonIters bounds every solve. On a batch executor one unbounded
	// worker stalls everyone, so the loop trades exactness for guaranteed
	// termination; convergence is empirically ~10 iterations.
	maxNewtonIters = 100

	// newtonTol is the residual |Σprob − 1| at which a solve is converged.
	newtonTol = 1e-3

	// piFloor keeps the initial α strictly above every singularity even
	// when λ_n·π underflows.
	piFloor = 1e-6
)

// scratch is one worker's private staging area: the node's raw action
// weights and transition values, copied out once so the Newton iterations
// hit fast memory instead of the arena. Owned by exactly one worker for the
// duration of one policy evaluation.
type scratch struct {
	pi []float32 // exp(logits), length A
	q  []float32 // transition value per action, length A
}

// stage loads node (b,t) into the scratch slot and returns λ_n, the
// regularizer scale c_puct·N/(N+A). N is the total simulated-visit mass
// feeding the node: each expanded action contributes its child's visit
// count, each unexpanded action contributes 1.
func (sc *scratch) stage(bt *Batch, qhat []float32, b, t int) (lambdaN float32) {
	logits := bt.logits(b, t)
	seat := int(bt.Seats[bt.node(b, t)])

	var visits float32
	for a := 0; a < bt.A; a++ {
		sc.pi[a] = math32.Exp(logits[a])

		child := bt.child(b, t, a)
		if child.valid() {
			sc.q[a] = qhat[bt.node(b, child.index())*bt.S+seat]
			visits += float32(bt.N[bt.node(b, child.index())])
		} else {
			sc.q[a] = 0
			visits++
		}
	}

	return bt.CPuct[b] * visits / (visits + float32(bt.A))
}

// solveAlpha finds the normalizer α of the regularized policy: the unique
// root of Σ_a λ_n·π[a]/(α − q[a]) = 1 with α above every q[a]. Plain
// Newton-Raphson on a convex residual, with two safety nets: a fixed
// iteration cap and a stagnation check against floating-point fixed points.
// Non-convergence is not an error; the best estimate so far is returned.
func solveAlpha(pi, q []float32, lambdaN float32) (alpha float32, iters int, converged bool) {
	alpha = math32.Inf(-1)
	for a := range pi {
		lo := q[a] + math32.Max(lambdaN*pi[a], piFloor)
		if lo > alpha {
			alpha = lo
		}
	}

	prevErr := math32.Inf(1)
	for iters = 0; iters < maxNewtonIters; iters++ {
		var sum, grad float32
		for a := range pi {
			d := alpha - q[a]
			sum += lambdaN * pi[a] / d
			grad -= lambdaN * pi[a] / (d * d)
		}

		err := sum - 1
		if math32.Abs(err) < newtonTol {
			return alpha, iters, true
		}
		if err == prevErr {
			break
		}
		prevErr = err
		alpha -= err / grad
	}
	return alpha, iters, false
}

// prob is the regularized policy for one action, given the solved α.
func prob(pi, q float32, lambdaN, alpha float32) float32 {
	return lambdaN * pi / (alpha - q)
}

// policy stages node (b,t), solves for α, and writes the action
// probabilities to out (length A). This is the one primitive Root and
// Descend share.
func (sc *scratch) policy(bt *Batch, qhat []float32, b, t int, conf Config, out []float32) {
	lambdaN := sc.stage(bt, qhat, b, t)
	alpha, iters, converged := solveAlpha(sc.pi, sc.q, lambdaN)
	conf.stats().AddSolve(iters, converged)

	for a := range out {
		out[a] = prob(sc.pi[a], sc.q[a], lambdaN, alpha)
	}
}
