package cpu

import (
	"github.com/featdist-ml/featdist/internal/parallel"
	"github.com/featdist-ml/featdist/internal/tensor"
)

// binaryVectorized computes result[i] = op(a[i], b[i]).
// Requires: len(result) == len(a) == len(b).
func binaryVectorized[T tensor.DType](result, a, b []T, op func(x, y T) T, cfg parallel.Config) {
	parallel.For(len(result), func(i int) {
		result[i] = op(a[i], b[i])
	}, cfg)
}

// binaryBroadcast computes result = op(a, b) with NumPy-style broadcasting.
// Dimensions of size 1 get stride 0, so both operands are walked against the
// output shape.
func binaryBroadcast[T tensor.DType](result, a, b []T, aShape, bShape, outShape tensor.Shape, op func(x, y T) T) {
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)
	outStrides := outShape.ComputeStrides()

	for i := range result {
		aIdx := computeFlatIndex(i, outStrides, aStrides)
		bIdx := computeFlatIndex(i, outStrides, bStrides)
		result[i] = op(a[aIdx], b[bIdx])
	}
}

// unaryVectorized computes result[i] = op(x[i]).
func unaryVectorized[T tensor.DType](result, x []T, op func(v T) T, cfg parallel.Config) {
	parallel.For(len(result), func(i int) {
		result[i] = op(x[i])
	}, cfg)
}

// computeBroadcastStridesForShape computes strides for broadcasting a shape to outShape.
// Returns strides where dimensions of size 1 have stride 0 (for broadcasting).
func computeBroadcastStridesForShape(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	// Pad input shape with 1s on the left
	inDim := len(inShape)
	offset := outDim - inDim

	// Compute original strides
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0 || inIdx >= inDim:
			// Padded dimension, stride is 0
			strides[i] = 0
		case inShape[inIdx] == 1:
			// Broadcast dimension, stride is 0
			strides[i] = 0
		default:
			// Normal dimension, use original stride
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// computeFlatIndex computes the flat index in the source array for a given output index.
// outStrides: strides of the output shape.
// inStrides: broadcast-adjusted strides of the input shape.
func computeFlatIndex(outIdx int, outStrides, inStrides []int) int {
	ndim := len(outStrides)
	flatIdx := 0

	for i := 0; i < ndim; i++ {
		// Extract coordinate along dimension i
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]

		// Add to flat index using input stride
		flatIdx += coord * inStrides[i]
	}

	return flatIdx
}
