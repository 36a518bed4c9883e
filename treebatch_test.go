package treebatch

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestNewPanicsOnInvalidConfig(t *testing.T) {
	require.Panics(t, func() {
		New(Config{})
	})
}

func TestEngineRoundTrip(t *testing.T) {
	conf := DefaultConfig()
	conf.CollectStats = true
	engine := New(conf)

	tr := makeTrees()
	bt, err := tr.marshal()
	require.NoError(t, err)

	t.Run("root policy normalizes per tree", func(t *testing.T) {
		probs, err := engine.Root(bt)
		require.NoError(t, err)
		require.Equal(t, tensor.Shape{2, 2}, probs.Shape())

		data := probs.Data().([]float32)
		for b := 0; b < 2; b++ {
			sum := data[b*2] + data[b*2+1]
			require.InDelta(t, 1.0, sum, 1e-2)
		}
	})

	var leaves *tensor.Dense

	t.Run("descend finds the expansion point", func(t *testing.T) {
		draws := UniformDraws(bt.B, bt.T, conf.Seed)
		parents, actions, err := engine.Descend(bt, draws)
		require.NoError(t, err)

		pv := parents.Data().([]int32)
		av := actions.Data().([]int32)
		for b := 0; b < 2; b++ {
			require.Equal(t, int32(0), pv[b], "unexpanded roots stop immediately")
			require.Contains(t, []int32{0, 1}, av[b])
		}
		leaves = parents
	})

	t.Run("backup mutates the tensors in place", func(t *testing.T) {
		v := make([]float32, bt.B*bt.T*bt.S)
		for i := range v {
			v[i] = 0.5
		}
		vt := tensor.New(tensor.WithShape(bt.B, bt.T, bt.S), tensor.WithBacking(v))

		require.NoError(t, engine.Backup(bt, vt, leaves))

		nv := tr.n.Data().([]int32)
		wv := tr.w.Data().([]float32)
		for b := 0; b < 2; b++ {
			require.Equal(t, int32(1), nv[b*bt.T], "root visit count through tensor backing")
			require.Equal(t, float32(0.5), wv[b*bt.T*bt.S])
		}
	})

	t.Run("collector saw the solves", func(t *testing.T) {
		s := engine.Stats()
		require.Greater(t, s.Solves, 0)
		require.Greater(t, s.Descents, 0)
	})
}

func TestEngineDescendValidatesDraws(t *testing.T) {
	engine := New(DefaultConfig())
	bt, err := makeTrees().marshal()
	require.NoError(t, err)

	bad := tensor.New(tensor.WithShape(2, 2), tensor.WithBacking(make([]float32, 4)))
	_, _, err = engine.Descend(bt, bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "draws")
}

func TestEngineBackupValidatesArgs(t *testing.T) {
	engine := New(DefaultConfig())
	bt, err := makeTrees().marshal()
	require.NoError(t, err)

	v := tensor.New(tensor.WithShape(2, 3, 2), tensor.WithBacking(make([]float32, 12)))
	badLeaves := tensor.New(tensor.WithShape(3), tensor.WithBacking(make([]int32, 3)))
	require.Error(t, engine.Backup(bt, v, badLeaves))
}

func TestUniformDraws(t *testing.T) {
	a := UniformDraws(4, 8, 9)
	b := UniformDraws(4, 8, 9)
	c := UniformDraws(4, 8, 10)

	require.Equal(t, tensor.Shape{4, 8}, a.Shape())
	require.Equal(t, a.Data().([]float32), b.Data().([]float32), "same seed, same draws")
	require.NotEqual(t, a.Data().([]float32), c.Data().([]float32))

	for _, v := range a.Data().([]float32) {
		require.GreaterOrEqual(t, v, float32(0))
		require.Less(t, v, float32(1))
	}
}
