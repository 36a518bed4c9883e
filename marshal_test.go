package treebatch

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"github.com/treebatch/mcts"
)

type trees struct {
	logits, w, n, cPuct, seats, terminal, children, parents, rewards *tensor.Dense
}

// makeTrees builds a consistent set of tensors for B=2, T=3, A=2, S=2 with
// every root unexpanded.
func makeTrees() trees {
	B, T, A, S := 2, 3, 2, 2

	children := make([]int32, B*T*A)
	parents := make([]int32, B*T)
	for i := range children {
		children[i] = -1
	}
	for i := range parents {
		parents[i] = -1
	}

	return trees{
		logits:   tensor.New(tensor.WithShape(B, T, A), tensor.WithBacking(make([]float32, B*T*A))),
		w:        tensor.New(tensor.WithShape(B, T, S), tensor.WithBacking(make([]float32, B*T*S))),
		n:        tensor.New(tensor.WithShape(B, T), tensor.WithBacking(make([]int32, B*T))),
		cPuct:    tensor.New(tensor.WithShape(B), tensor.WithBacking([]float32{2.5, 2.5})),
		seats:    tensor.New(tensor.WithShape(B, T), tensor.WithBacking(make([]int32, B*T))),
		terminal: tensor.New(tensor.WithShape(B, T), tensor.WithBacking(make([]bool, B*T))),
		children: tensor.New(tensor.WithShape(B, T, A), tensor.WithBacking(children)),
		parents:  tensor.New(tensor.WithShape(B, T), tensor.WithBacking(parents)),
		rewards:  tensor.New(tensor.WithShape(B, T, S), tensor.WithBacking(make([]float32, B*T*S))),
	}
}

func (tr trees) marshal() (*mcts.Batch, error) {
	return MarshalTrees(tr.logits, tr.w, tr.n, tr.cPuct, tr.seats, tr.terminal,
		tr.children, tr.parents, tr.rewards)
}

func TestMarshalTrees(t *testing.T) {
	t.Run("derives every dimension from the arrays", func(t *testing.T) {
		bt, err := makeTrees().marshal()
		require.NoError(t, err)
		require.Equal(t, 2, bt.B)
		require.Equal(t, 3, bt.T)
		require.Equal(t, 2, bt.A)
		require.Equal(t, 2, bt.S)
	})

	t.Run("batch aliases the tensor backing", func(t *testing.T) {
		tr := makeTrees()
		bt, err := tr.marshal()
		require.NoError(t, err)

		tr.n.Data().([]int32)[0] = 42
		require.Equal(t, int32(42), bt.N[0], "kernels must see caller mutations")
	})

	t.Run("rejects a wrong dtype", func(t *testing.T) {
		tr := makeTrees()
		tr.n = tensor.New(tensor.WithShape(2, 3), tensor.WithBacking(make([]float32, 6)))

		_, err := tr.marshal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "n:")
	})

	t.Run("reports every bad array at once", func(t *testing.T) {
		tr := makeTrees()
		tr.seats = tensor.New(tensor.WithShape(3, 3), tensor.WithBacking(make([]int32, 9)))
		tr.rewards = tensor.New(tensor.WithShape(2, 3), tensor.WithBacking(make([]float32, 6)))

		_, err := tr.marshal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "seats")
		require.Contains(t, err.Error(), "rewards")
	})

	t.Run("rejects a non-positive exploration scale", func(t *testing.T) {
		tr := makeTrees()
		tr.cPuct = tensor.New(tensor.WithShape(2), tensor.WithBacking([]float32{2.5, 0}))

		_, err := tr.marshal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "c_puct")
	})

	t.Run("rejects a wrong rank on the sizing arrays", func(t *testing.T) {
		tr := makeTrees()
		tr.logits = tensor.New(tensor.WithShape(2, 6), tensor.WithBacking(make([]float32, 12)))

		_, err := tr.marshal()
		require.Error(t, err)
		require.Contains(t, err.Error(), "rank")
	})
}
