package cpu

import (
	"fmt"
	"slices"

	"github.com/featdist-ml/featdist/internal/parallel"
	"github.com/featdist-ml/featdist/internal/tensor"
)

// SortDim sorts tensor elements in ascending order along the specified
// dimension. Every one-dimensional lane along dim is sorted independently.
//
// This is the primitive behind the sorted-sample transport distance: the
// H*W spatial samples of each (batch, channel) lane are ordered so that the
// two empirical distributions can be matched pointwise.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{4, 3, 64}, backend)
//	y := backend.SortDim(x, -1) // each length-64 lane sorted ascending
func (cpu *CPUBackend) SortDim(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sortdim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sortdim: %v", err))
	}

	// Lanes along dim form a (outer, laneLen, inner) decomposition in
	// row-major order: element (o, j, i) sits at o*laneLen*inner + j*inner + i.
	laneLen := shape[dim]
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}

	switch x.DType() {
	case tensor.Float32:
		sortLanes(result.AsFloat32(), x.AsFloat32(), outer, laneLen, inner, cpu)
	case tensor.Float64:
		sortLanes(result.AsFloat64(), x.AsFloat64(), outer, laneLen, inner, cpu)
	default:
		panic(fmt.Sprintf("sortdim: unsupported dtype %s", x.DType()))
	}

	return result
}

func sortLanes[T tensor.DType](result, data []T, outer, laneLen, inner int, cpu *CPUBackend) {
	if inner == 1 {
		// Lanes are contiguous; sort each slice directly.
		copy(result, data)
		forLane(outer, 1, func(o, _ int) {
			lane := result[o*laneLen : (o+1)*laneLen]
			slices.Sort(lane)
		}, cpu)
		return
	}

	// Strided lanes: gather, sort, scatter. Each lane owns a scratch buffer
	// so lanes stay independent under the worker pool.
	forLane(outer, inner, func(o, i int) {
		scratch := make([]T, laneLen)
		base := o*laneLen*inner + i
		for j := 0; j < laneLen; j++ {
			scratch[j] = data[base+j*inner]
		}
		slices.Sort(scratch)
		for j := 0; j < laneLen; j++ {
			result[base+j*inner] = scratch[j]
		}
	}, cpu)
}

func forLane(outer, inner int, f func(o, i int), cpu *CPUBackend) {
	// Sorting a lane is much heavier than one element-wise op, so any
	// multi-lane workload is worth distributing.
	cfg := cpu.par
	cfg.MinChunkSize = 2
	parallel.ForLanes(outer, inner, f, cfg)
}
