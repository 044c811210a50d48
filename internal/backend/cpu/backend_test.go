package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featdist-ml/featdist/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.Tensor[float32, *CPUBackend] {
	t.Helper()
	x, err := tensor.FromSlice[float32](data, shape, New())
	require.NoError(t, err)
	return x
}

func TestBinaryOps(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{4, 3, 2, 1}, tensor.Shape{2, 2})

	assert.Equal(t, []float32{5, 5, 5, 5}, a.Add(b).Data())
	assert.Equal(t, []float32{-3, -1, 1, 3}, a.Sub(b).Data())
	assert.Equal(t, []float32{4, 6, 6, 4}, a.Mul(b).Data())

	div := a.Div(b).Data()
	expected := []float32{0.25, 2.0 / 3.0, 1.5, 4}
	for i := range expected {
		assert.InDelta(t, expected[i], div[i], 1e-6)
	}
}

func TestBinaryOps_Broadcast(t *testing.T) {
	// (2, 2, 2, 2) * (2, 2, 2, 1): the channel-pair augmentation pattern.
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{1, 2, 2, 2})
	sel := fromSlice(t, []float32{1, 3, 5, 7}, tensor.Shape{1, 2, 2, 1})

	got := x.Mul(sel)
	assert.True(t, got.Shape().Equal(tensor.Shape{1, 2, 2, 2}))
	assert.Equal(t, []float32{1, 2, 9, 12, 25, 30, 49, 56}, got.Data())
}

func TestBinaryOps_BroadcastKeepdims(t *testing.T) {
	// (1, 2, 2, 1) - (1, 1, 1, 1): centering against a spatial mean.
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	mean := fromSlice(t, []float32{2.5}, tensor.Shape{1, 1, 1, 1})

	got := x.Sub(mean)
	assert.Equal(t, []float32{-1.5, -0.5, 0.5, 1.5}, got.Data())
}

func TestBinaryOps_ShapeMismatchPanics(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	b := fromSlice(t, []float32{1, 2}, tensor.Shape{2})
	assert.Panics(t, func() { a.Add(b) })
}

func TestBinaryOps_InputsUntouched(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{4})
	b := fromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{4})

	_ = a.Add(b)
	_ = a.Mul(b)

	assert.Equal(t, []float32{1, 2, 3, 4}, a.Data())
	assert.Equal(t, []float32{10, 20, 30, 40}, b.Data())
}

func TestScalarOps(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{4})

	assert.Equal(t, []float32{2, 3, 4, 5}, x.AddScalar(1).Data())
	assert.Equal(t, []float32{0, 1, 2, 3}, x.SubScalar(1).Data())
	assert.Equal(t, []float32{2, 4, 6, 8}, x.MulScalar(2).Data())
	assert.Equal(t, []float32{0.5, 1, 1.5, 2}, x.DivScalar(2).Data())
}

func TestMathOps(t *testing.T) {
	x := fromSlice(t, []float32{1, 4, 9, 16}, tensor.Shape{4})

	assert.Equal(t, []float32{1, 2, 3, 4}, x.Sqrt().Data())

	rsqrt := x.Rsqrt().Data()
	for i, want := range []float32{1, 0.5, 1.0 / 3.0, 0.25} {
		assert.InDelta(t, want, rsqrt[i], 1e-6)
	}

	y := fromSlice(t, []float32{-2, -1, 0, 3}, tensor.Shape{4})
	assert.Equal(t, []float32{2, 1, 0, 3}, y.Abs().Data())
}

func TestPowScalar(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{4})

	assert.Equal(t, []float32{1, 4, 9, 16}, x.PowScalar(2).Data())
	assert.Equal(t, []float32{1, 8, 27, 64}, x.PowScalar(3).Data())
	assert.Equal(t, []float32{1, 2, 3, 4}, x.PowScalar(1).Data())

	root := x.PowScalar(0.5).Data()
	for i, v := range []float32{1, 2, 3, 4} {
		assert.InDelta(t, math.Sqrt(float64(v)), float64(root[i]), 1e-6)
	}
}

func TestPowScalar_NegativeBaseOddExponent(t *testing.T) {
	x := fromSlice(t, []float32{-2, -1, 1, 2}, tensor.Shape{4})
	assert.Equal(t, []float32{-8, -1, 1, 8}, x.PowScalar(3).Data())
}

func TestFloat64Ops(t *testing.T) {
	backend := New()
	a, err := tensor.FromSlice[float64]([]float64{1, 2, 3, 4}, tensor.Shape{4}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice[float64]([]float64{4, 3, 2, 1}, tensor.Shape{4}, backend)
	require.NoError(t, err)

	assert.Equal(t, []float64{5, 5, 5, 5}, a.Add(b).Data())
	assert.Equal(t, []float64{2, 4, 6, 8}, a.MulScalar(2.0).Data())
	assert.Equal(t, []float64{1, 4, 9, 16}, a.PowScalar(2).Data())
}

func TestBackend_Metadata(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
}
