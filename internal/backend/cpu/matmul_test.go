package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/featdist-ml/featdist/internal/tensor"
)

func TestBatchMatMul_3D(t *testing.T) {
	// Batch of two 2x2 matmuls.
	a := fromSlice(t, []float32{
		1, 2,
		3, 4,

		1, 0,
		0, 1,
	}, tensor.Shape{2, 2, 2})
	b := fromSlice(t, []float32{
		5, 6,
		7, 8,

		2, 3,
		4, 5,
	}, tensor.Shape{2, 2, 2})

	got := a.BatchMatMul(b)
	assert.True(t, got.Shape().Equal(tensor.Shape{2, 2, 2}))
	assert.Equal(t, []float32{
		19, 22,
		43, 50,

		2, 3,
		4, 5,
	}, got.Data())
}

func TestBatchMatMul_GramPattern(t *testing.T) {
	// (B, C, HW) x (B, HW, C) -> (B, C, C), the Gramian building block.
	flat := fromSlice(t, []float32{
		1, 2,
		3, 4,
		5, 6,
	}, tensor.Shape{1, 3, 2}) // (B=1, HW=3, C=2)

	g := flat.Transpose(0, 2, 1).BatchMatMul(flat)
	assert.True(t, g.Shape().Equal(tensor.Shape{1, 2, 2}))
	// G[i][j] = sum_hw x[hw][i]*x[hw][j]
	assert.Equal(t, []float32{
		35, 44,
		44, 56,
	}, g.Data())
}

func TestBatchMatMul_ShapeMismatchPanics(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2})
	b := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 3, 2})
	assert.Panics(t, func() { a.BatchMatMul(b) })
}
