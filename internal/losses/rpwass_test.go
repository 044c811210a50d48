package losses

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featdist-ml/featdist/internal/backend/cpu"
	"github.com/featdist-ml/featdist/internal/tensor"
)

func TestRandPairWassLoss_OutputShape(t *testing.T) {
	backend := cpu.New()
	loss := NewRandPairWassLoss[Backend](backend, rand.New(rand.NewSource(1)))

	shape := tensor.Shape{2, 4, 4, 3}
	x := tensor.Randn[float32](shape, backend)
	y := tensor.Randn[float32](shape, backend)

	// Every draw yields C+1 channels, whichever index was selected.
	for i := 0; i < 20; i++ {
		out, err := loss.Forward(x, y)
		require.NoError(t, err)
		assert.True(t, out.Shape().Equal(tensor.Shape{2, 4}), "call %d", i)
	}
}

func TestRandPairWassLoss_Deterministic(t *testing.T) {
	backend := cpu.New()
	shape := tensor.Shape{1, 4, 4, 5}
	x := tensor.Randn[float32](shape, backend)
	y := tensor.Randn[float32](shape, backend)

	run := func(seed int64) [][]float32 {
		loss := NewRandPairWassLoss[Backend](backend, rand.New(rand.NewSource(seed)))
		var outs [][]float32
		for i := 0; i < 5; i++ {
			out, err := loss.Forward(x, y)
			require.NoError(t, err)
			outs = append(outs, out.Data())
		}
		return outs
	}

	assert.Equal(t, run(42), run(42))
}

func TestRandPairWassLoss_SingleChannel(t *testing.T) {
	// C=1: the only selectable channel is 0, so the augmentation is
	// [x0, x0*x0] and the result is exactly computable.
	x := feat(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	z := feat(t, []float32{0, 0, 0, 0}, tensor.Shape{1, 2, 2, 1})

	loss := NewRandPairWassLoss[Backend](cpu.New(), rand.New(rand.NewSource(7)))
	out, err := loss.Forward(x, z)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 2}))

	want, err := WassersteinDistance(augmentPair(x, 0), augmentPair(z, 0), 2)
	require.NoError(t, err)
	assert.InDelta(t, want.Data()[0], out.Data()[0], 1e-6)
	assert.InDelta(t, want.Data()[1], out.Data()[1], 1e-6)
}

func TestRandPairWassLoss_NilRNG(t *testing.T) {
	backend := cpu.New()
	loss := NewRandPairWassLoss[Backend](backend, nil)

	shape := tensor.Shape{1, 2, 2, 2}
	x := tensor.Randn[float32](shape, backend)

	out, err := loss.Forward(x, x)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 3}))
	for _, v := range out.Data() {
		assert.InDelta(t, 0, v, 1e-6)
	}
}

func TestAugmentPair(t *testing.T) {
	// (1, 1, 2, 2): samples (1, 2) and (3, 4) across channels.
	x := feat(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})

	got := augmentPair(x, 1)
	require.True(t, got.Shape().Equal(tensor.Shape{1, 1, 2, 3}))
	// Selected channel 1 first, then every channel times it.
	assert.Equal(t, []float32{
		2, 2, 4, // w=0: sel=2, 1*2, 2*2
		4, 12, 16, // w=1: sel=4, 3*4, 4*4
	}, got.Data())
}
