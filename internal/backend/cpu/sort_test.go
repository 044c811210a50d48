package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/featdist-ml/featdist/internal/tensor"
)

func TestSortDim_LastDim(t *testing.T) {
	x := fromSlice(t, []float32{3, 1, 2, 9, 7, 8}, tensor.Shape{2, 3})

	sorted := x.SortDim(-1)
	assert.Equal(t, []float32{1, 2, 3, 7, 8, 9}, sorted.Data())
	// Input untouched.
	assert.Equal(t, []float32{3, 1, 2, 9, 7, 8}, x.Data())
}

func TestSortDim_Strided(t *testing.T) {
	// Sort along dim 0 of a (3, 2): lanes are interleaved in memory.
	x := fromSlice(t, []float32{5, 2, 1, 6, 3, 4}, tensor.Shape{3, 2})

	sorted := x.SortDim(0)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, sorted.Data())
}

func TestSortDim_SpatialLanes(t *testing.T) {
	// (B, C, HW) lanes sorted independently, as the transport distance does.
	x := fromSlice(t, []float32{
		4, 1, 3, 2, // lane (0, 0)
		8, 5, 7, 6, // lane (0, 1)
	}, tensor.Shape{1, 2, 4})

	sorted := x.SortDim(-1)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, sorted.Data())
}

func TestSortDim_AlreadySorted(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{4})
	assert.Equal(t, []float32{1, 2, 3, 4}, x.SortDim(0).Data())
}
