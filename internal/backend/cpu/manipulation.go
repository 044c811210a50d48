package cpu

import (
	"fmt"

	"github.com/featdist-ml/featdist/internal/tensor"
)

// Cat concatenates tensors along the specified dimension.
//
// All tensors must have the same shape except along the concatenation
// dimension. Supports negative dim indexing (-1 = last dimension).
//
// Example:
//
//	a := tensor.Randn[float32](Shape{4, 8, 8, 1}, backend)
//	b := tensor.Randn[float32](Shape{4, 8, 8, 3}, backend)
//	c := backend.Cat([]*RawTensor{a, b}, 3) // Shape: [4, 8, 8, 4]
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	// Normalize negative dimension
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	// Validate shapes and calculate total size along concat dimension
	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}

		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim

	result, err := tensor.NewRaw(outShape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	switch dtype {
	case tensor.Float32:
		f32 := make([][]float32, len(tensors))
		for i, t := range tensors {
			f32[i] = t.AsFloat32()
		}
		catData(result.AsFloat32(), f32, tensors, shape, dim, totalDim)
	case tensor.Float64:
		f64 := make([][]float64, len(tensors))
		for i, t := range tensors {
			f64[i] = t.AsFloat64()
		}
		catData(result.AsFloat64(), f64, tensors, shape, dim, totalDim)
	default:
		panic(fmt.Sprintf("cat: unsupported dtype %s", dtype))
	}

	return result
}

// catData copies each input's blocks into the output. In row-major order a
// tensor decomposes into outer blocks of dimSize*inner elements along dim,
// so concatenation is block interleaving.
func catData[T tensor.DType](out []T, data [][]T, tensors []*tensor.RawTensor, shape tensor.Shape, dim, totalDim int) {
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	offset := 0
	for i, t := range tensors {
		tDim := t.Shape()[dim]
		block := tDim * inner
		for o := 0; o < outer; o++ {
			dst := out[o*totalDim*inner+offset*inner:]
			src := data[i][o*block : (o+1)*block]
			copy(dst[:block], src)
		}
		offset += tDim
	}
}

// Narrow returns a slice of the tensor along dim covering [start, start+length).
// Supports negative dim indexing (-1 = last dimension). The data is copied.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{4, 8, 8, 3}, backend)
//	ch := backend.Narrow(x, 3, 1, 1) // channel 1, Shape: [4, 8, 8, 1]
func (cpu *CPUBackend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("narrow: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if length <= 0 || start < 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension %d (size %d)",
			start, start+length, dim, shape[dim]))
	}

	outShape := shape.Clone()
	outShape[dim] = length

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("narrow: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		narrowData(result.AsFloat32(), x.AsFloat32(), shape, dim, start, length)
	case tensor.Float64:
		narrowData(result.AsFloat64(), x.AsFloat64(), shape, dim, start, length)
	default:
		panic(fmt.Sprintf("narrow: unsupported dtype %s", x.DType()))
	}

	return result
}

func narrowData[T tensor.DType](out, data []T, shape tensor.Shape, dim, start, length int) {
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	dimSize := shape[dim]
	block := length * inner
	for o := 0; o < outer; o++ {
		src := data[o*dimSize*inner+start*inner:]
		copy(out[o*block:(o+1)*block], src[:block])
	}
}
