package cpu

import (
	"fmt"

	"github.com/featdist-ml/featdist/internal/parallel"
	"github.com/featdist-ml/featdist/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication.
// Supports 3D and 4D tensors with batch dimensions.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// The last two dimensions are treated as matrix dimensions.
// All leading dimensions must match (batch dimensions).
//
// The Gram matrices of the second-moment distance are computed this way:
// the (B, H*W, C) view of a feature map, transposed and multiplied against
// itself, yields one C×C Gram matrix per batch element.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	// Validate dimensions
	if ndim < 3 {
		panic(fmt.Sprintf("BatchMatMul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("BatchMatMul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}

	// Validate batch dimensions match
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("BatchMatMul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
	}

	// Extract matrix dimensions
	m := aShape[ndim-2]
	k1 := aShape[ndim-1]
	k2 := bShape[ndim-2]
	n := bShape[ndim-1]

	if k1 != k2 {
		panic(fmt.Sprintf("BatchMatMul: inner dimension mismatch: %d vs %d", k1, k2))
	}

	// Compute batch size (product of all batch dims)
	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		batchSize *= aShape[i]
	}

	// Output shape = batch dims + [M, N]
	outShape := make(tensor.Shape, ndim)
	copy(outShape, aShape[:ndim-2])
	outShape[ndim-2] = m
	outShape[ndim-1] = n

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("BatchMatMul: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		batchMatmul(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), batchSize, m, k1, n, cpu)
	case tensor.Float64:
		batchMatmul(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), batchSize, m, k1, n, cpu)
	default:
		panic(fmt.Sprintf("BatchMatMul: unsupported dtype %s", a.DType()))
	}

	return result
}

// batchMatmul performs batched matrix multiplication with one goroutine
// per chunk of batches.
func batchMatmul[T tensor.DType](c, a, b []T, batchSize, m, k, n int, cpu *CPUBackend) {
	matrixSizeA := m * k
	matrixSizeB := k * n
	matrixSizeC := m * n

	cfg := cpu.par
	cfg.MinChunkSize = 1

	parallel.For(batchSize, func(batch int) {
		aOffset := batch * matrixSizeA
		bOffset := batch * matrixSizeB
		cOffset := batch * matrixSizeC

		// 2D matmul for this batch, ikj loop order for cache locality.
		for i := 0; i < m; i++ {
			for kk := 0; kk < k; kk++ {
				aVal := a[aOffset+i*k+kk]
				if aVal == 0 {
					continue
				}
				for j := 0; j < n; j++ {
					c[cOffset+i*n+j] += aVal * b[bOffset+kk*n+j]
				}
			}
		}
	}, cfg)
}
