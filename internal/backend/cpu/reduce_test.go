package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/featdist-ml/featdist/internal/tensor"
)

func TestSumDim(t *testing.T) {
	// (2, 3): rows [1 2 3], [4 5 6].
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := x.SumDim(1, false)
	assert.True(t, rows.Shape().Equal(tensor.Shape{2}))
	assert.Equal(t, []float32{6, 15}, rows.Data())

	cols := x.SumDim(0, false)
	assert.True(t, cols.Shape().Equal(tensor.Shape{3}))
	assert.Equal(t, []float32{5, 7, 9}, cols.Data())
}

func TestSumDim_KeepDim(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	kept := x.SumDim(1, true)
	assert.True(t, kept.Shape().Equal(tensor.Shape{2, 1}))
	assert.Equal(t, []float32{6, 15}, kept.Data())
}

func TestSumDim_NegativeDim(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	assert.Equal(t, []float32{6, 15}, x.SumDim(-1, false).Data())
}

func TestMeanDim(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	mean := x.MeanDim(1, false)
	assert.Equal(t, []float32{2, 5}, mean.Data())
}

func TestMeanDim_SpatialChain(t *testing.T) {
	// (1, 2, 2, 1) reduced over height then width with keepdims, the
	// spatial-mean pattern used by the moment losses.
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})

	mean := x.MeanDim(1, true).MeanDim(2, true)
	assert.True(t, mean.Shape().Equal(tensor.Shape{1, 1, 1, 1}))
	assert.Equal(t, []float32{2.5}, mean.Data())
}

func TestMeanDim_MidDimension(t *testing.T) {
	// (2, 2, 2): reduce the middle dimension.
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})

	mean := x.MeanDim(1, false)
	assert.True(t, mean.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float32{2, 3, 6, 7}, mean.Data())
}

func TestSumDim_OutOfRangePanics(t *testing.T) {
	x := fromSlice(t, []float32{1, 2}, tensor.Shape{2})
	assert.Panics(t, func() { x.SumDim(1, false) })
}
