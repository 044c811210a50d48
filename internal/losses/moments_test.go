package losses

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featdist-ml/featdist/internal/backend/cpu"
	"github.com/featdist-ml/featdist/internal/tensor"
)

// laneMoments computes reference mean, variance and stabilized skew of one
// spatial lane in float64.
func laneMoments(lane []float32) (mean, variance, skew float64) {
	n := float64(len(lane))
	for _, v := range lane {
		mean += float64(v)
	}
	mean /= n

	for _, v := range lane {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= n

	invStd := 1 / math.Sqrt(variance+1e-3)
	for _, v := range lane {
		z := (float64(v) - mean) * invStd
		skew += z * z * z
	}
	skew /= n
	return mean, variance, skew
}

func TestSpatialMoments_Order1(t *testing.T) {
	x := feat(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})

	m, err := SpatialMoments(x, 1)
	require.NoError(t, err)
	require.NotNil(t, m.Mean)
	assert.Nil(t, m.Variance)
	assert.Nil(t, m.Skew)

	assert.True(t, m.Mean.Shape().Equal(tensor.Shape{1, 1, 1, 1}))
	assert.InDelta(t, 2.5, m.Mean.Item(), 1e-6)
}

func TestSpatialMoments_Order3(t *testing.T) {
	lane := []float32{0, 0, 0, 3}
	x := feat(t, lane, tensor.Shape{1, 2, 2, 1})

	m, err := SpatialMoments(x, 3)
	require.NoError(t, err)
	require.NotNil(t, m.Variance)
	require.NotNil(t, m.Skew)

	wantMean, wantVar, wantSkew := laneMoments(lane)
	assert.InDelta(t, wantMean, float64(m.Mean.Item()), 1e-5)
	assert.InDelta(t, wantVar, float64(m.Variance.Item()), 1e-5)
	assert.InDelta(t, wantSkew, float64(m.Skew.Item()), 1e-4)
}

func TestSpatialMoments_PerChannel(t *testing.T) {
	// Two channels with distinct lanes: (1, 2, 2, 2), channel-interleaved.
	x := feat(t, []float32{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	}, tensor.Shape{1, 2, 2, 2})

	m, err := SpatialMoments(x, 2)
	require.NoError(t, err)
	assert.True(t, m.Mean.Shape().Equal(tensor.Shape{1, 1, 1, 2}))

	means := m.Mean.Data()
	assert.InDelta(t, 2.5, means[0], 1e-6)
	assert.InDelta(t, 25, means[1], 1e-5)

	vars := m.Variance.Data()
	assert.InDelta(t, 1.25, vars[0], 1e-5)
	assert.InDelta(t, 125, vars[1], 1e-3)
}

func TestSpatialMoments_ConstantLaneSkewIsFinite(t *testing.T) {
	// Zero variance: the epsilon keeps the standardization finite.
	x := feat(t, []float32{2, 2, 2, 2}, tensor.Shape{1, 2, 2, 1})

	m, err := SpatialMoments(x, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0, m.Skew.Item(), 1e-6)
	assert.False(t, math.IsNaN(float64(m.Skew.Item())))
}

func TestSpatialMoments_InvalidOrder(t *testing.T) {
	x := feat(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})

	for _, order := range []int{0, 4, -1} {
		_, err := SpatialMoments(x, order)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	}
}

func TestSpatialMoments_RequiresRank4(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice[float32]([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	_, err = SpatialMoments(x, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSpatialMoments_InputUntouched(t *testing.T) {
	x := feat(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})

	_, err := SpatialMoments(x, 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, x.Data())
}
