package treebatch

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/treebatch/mcts"
)

/*
The marshalling layer sits between the caller's tensors and the kernels. Its
contract: every array handed to a kernel has been checked for dtype, rank and
cross-array dimension agreement, and the kernel receives a flat, contiguous
view of its backing. The kernels themselves never validate anything beyond
optional bounds diagnostics.

All failures for one call are collected before returning, so a caller with
three bad arrays hears about all three at once.
*/

// MarshalTrees validates the nine tree arrays and exposes them to the
// kernels as one Batch. The shape parameters B, T, A and S are derived from
// the array dimensions: logits fixes [B,T,A], w fixes S.
//
// The returned Batch aliases the tensors' backing memory; mutating kernels
// (Backup) write through to the originals.
func MarshalTrees(logits, w, n, cPuct, seats, terminal, children, parents, rewards *tensor.Dense) (*mcts.Batch, error) {
	var errs error

	// Everything else is sized off logits and w.
	if err := checkRank("logits", logits, 3); err != nil {
		return nil, err
	}
	if err := checkRank("w", w, 3); err != nil {
		return nil, err
	}
	B, T, A := logits.Shape()[0], logits.Shape()[1], logits.Shape()[2]
	S := w.Shape()[2]

	lg, err := f32View("logits", logits, B, T, A)
	errs = appendErr(errs, err)

	wv, err := f32View("w", w, B, T, S)
	errs = appendErr(errs, err)

	nv, err := i32View("n", n, B, T)
	errs = appendErr(errs, err)

	cv, err := f32View("c_puct", cPuct, B)
	errs = appendErr(errs, err)

	sv, err := i32View("seats", seats, B, T)
	errs = appendErr(errs, err)

	tv, err := boolView("terminal", terminal, B, T)
	errs = appendErr(errs, err)

	kv, err := i32View("children", children, B, T, A)
	errs = appendErr(errs, err)

	pv, err := i32View("parents", parents, B, T)
	errs = appendErr(errs, err)

	rv, err := f32View("rewards", rewards, B, T, S)
	errs = appendErr(errs, err)

	if errs != nil {
		return nil, errs
	}

	// Zero c_puct sends λ_n to zero and with it every π term, which turns
	// the Newton loop into a fixed point at the iteration cap. Reject it
	// here rather than let every tree burn the full 100 iterations.
	for b, c := range cv {
		if c <= 0 {
			return nil, errors.Errorf("c_puct must be positive, tree %d has %v", b, c)
		}
	}

	return &mcts.Batch{
		B: B, T: T, A: A, S: S,
		Logits:   lg,
		W:        wv,
		N:        nv,
		CPuct:    cv,
		Seats:    sv,
		Terminal: tv,
		Children: kv,
		Parents:  pv,
		Rewards:  rv,
	}, nil
}

func appendErr(errs error, err error) error {
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs
}

func checkRank(name string, d *tensor.Dense, rank int) error {
	if d == nil {
		return errors.Errorf("%s: nil tensor", name)
	}
	if d.Dims() != rank {
		return errors.Errorf("%s: expected rank %d, got shape %v", name, rank, d.Shape())
	}
	return nil
}

func f32View(name string, d *tensor.Dense, dims ...int) ([]float32, error) {
	if err := checkTensor(name, d, tensor.Float32, dims...); err != nil {
		return nil, err
	}
	return d.Data().([]float32), nil
}

func i32View(name string, d *tensor.Dense, dims ...int) ([]int32, error) {
	if err := checkTensor(name, d, tensor.Int32, dims...); err != nil {
		return nil, err
	}
	return d.Data().([]int32), nil
}

func boolView(name string, d *tensor.Dense, dims ...int) ([]bool, error) {
	if err := checkTensor(name, d, tensor.Bool, dims...); err != nil {
		return nil, err
	}
	return d.Data().([]bool), nil
}

// checkTensor validates dtype, exact shape and contiguity.
func checkTensor(name string, d *tensor.Dense, dt tensor.Dtype, dims ...int) error {
	if d == nil {
		return errors.Errorf("%s: nil tensor", name)
	}
	if d.Dtype() != dt {
		return errors.Errorf("%s: expected %v, got %v", name, dt, d.Dtype())
	}
	if !d.DataOrder().IsContiguous() {
		return errors.Errorf("%s: backing must be contiguous", name)
	}
	if !d.Shape().Eq(tensor.Shape(dims)) {
		return errors.Errorf("%s: expected shape %v, got %v", name, tensor.Shape(dims), d.Shape())
	}
	return nil
}
