package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 1, Shape{1, 1, 1, 1}.NumElements())
	assert.Equal(t, 5, Shape{5}.NumElements())
}

func TestShape_Validate(t *testing.T) {
	assert.NoError(t, Shape{2, 3}.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.Error(t, Shape{-1, 3}.Validate())
}

func TestShape_Equal(t *testing.T) {
	assert.True(t, Shape{2, 3, 4}.Equal(Shape{2, 3, 4}))
	assert.False(t, Shape{2, 3}.Equal(Shape{2, 3, 4}))
	assert.False(t, Shape{2, 3, 4}.Equal(Shape{2, 4, 3}))
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{7}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
	}{
		{"equal", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false},
		{"scalar dim", Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true},
		{"rank lift", Shape{4, 2, 3}, Shape{3}, Shape{4, 2, 3}, true},
		{"channel keepdims", Shape{2, 4, 4, 8}, Shape{2, 1, 1, 8}, Shape{2, 4, 4, 8}, true},
		{"covar broadcast", Shape{2, 8}, Shape{2, 1}, Shape{2, 8}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, needsBroadcast, err := BroadcastShapes(tt.a, tt.b)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
			assert.Equal(t, tt.broadcast, needsBroadcast)
		})
	}
}

func TestBroadcastShapes_Incompatible(t *testing.T) {
	_, _, err := BroadcastShapes(Shape{2, 3}, Shape{2, 4})
	assert.Error(t, err)
}

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	require.NoError(t, err)
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 24, raw.ByteSize())
	assert.Equal(t, Float32, raw.DType())
	assert.Equal(t, CPU, raw.Device())

	_, err = NewRaw(Shape{0, 3}, Float32, CPU)
	assert.Error(t, err)
}

func TestRawTensor_CloneSharesBuffer(t *testing.T) {
	raw, err := NewRaw(Shape{4}, Float32, CPU)
	require.NoError(t, err)
	assert.True(t, raw.IsUnique())

	clone := raw.Clone()
	assert.False(t, raw.IsUnique())
	assert.False(t, clone.IsUnique())

	// Writing through one view is visible through the other.
	raw.AsFloat32()[0] = 42
	assert.Equal(t, float32(42), clone.AsFloat32()[0])

	clone.Release()
	assert.True(t, raw.IsUnique())
}
