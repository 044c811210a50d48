package webgpu

import (
	"github.com/featdist-ml/featdist/internal/tensor"
)

// Element-wise binary operations. Same-shape float32 pairs run as compute
// shaders; broadcasting and float64 fall through to the CPU backend.

// Add performs element-wise addition.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("add", a, other)
}

// Sub performs element-wise subtraction.
func (b *Backend) Sub(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("sub", a, other)
}

// Mul performs element-wise multiplication.
func (b *Backend) Mul(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("mul", a, other)
}

// Div performs element-wise division.
func (b *Backend) Div(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp("div", a, other)
}

func (b *Backend) binaryOp(name string, a, other *tensor.RawTensor) *tensor.RawTensor {
	if !b.gpuEligible(a) || !a.Shape().Equal(other.Shape()) || other.DType() != tensor.Float32 {
		return b.fallbackBinary(name, a, other)
	}
	result, err := b.runElementwise(name, []*tensor.RawTensor{a, other}, nil)
	if err != nil {
		panic("webgpu: " + name + ": " + err.Error())
	}
	return result
}

func (b *Backend) fallbackBinary(name string, a, other *tensor.RawTensor) *tensor.RawTensor {
	switch name {
	case "add":
		return b.fallback.Add(a, other)
	case "sub":
		return b.fallback.Sub(a, other)
	case "mul":
		return b.fallback.Mul(a, other)
	default:
		return b.fallback.Div(a, other)
	}
}

// Scalar operations. The scalar's Go type must match the tensor's dtype.

// AddScalar adds a scalar value to each element of the tensor.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	if s, ok := scalar.(float32); ok && b.gpuEligible(x) {
		return b.mustRun("add_scalar", x, float32Params(s))
	}
	return b.fallback.AddScalar(x, scalar)
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (b *Backend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	if s, ok := scalar.(float32); ok && b.gpuEligible(x) {
		return b.mustRun("sub_scalar", x, float32Params(s))
	}
	return b.fallback.SubScalar(x, scalar)
}

// MulScalar multiplies each element of the tensor by a scalar value.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	if s, ok := scalar.(float32); ok && b.gpuEligible(x) {
		return b.mustRun("mul_scalar", x, float32Params(s))
	}
	return b.fallback.MulScalar(x, scalar)
}

// DivScalar divides each element of the tensor by a scalar value.
func (b *Backend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	if s, ok := scalar.(float32); ok && b.gpuEligible(x) {
		return b.mustRun("div_scalar", x, float32Params(s))
	}
	return b.fallback.DivScalar(x, scalar)
}

// Element-wise math operations.

// Sqrt computes the element-wise square root.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	if b.gpuEligible(x) {
		return b.mustRun("sqrt", x, nil)
	}
	return b.fallback.Sqrt(x)
}

// Rsqrt computes the element-wise reciprocal square root.
func (b *Backend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	if b.gpuEligible(x) {
		return b.mustRun("rsqrt", x, nil)
	}
	return b.fallback.Rsqrt(x)
}

// Abs computes the element-wise absolute value.
func (b *Backend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	if b.gpuEligible(x) {
		return b.mustRun("abs", x, nil)
	}
	return b.fallback.Abs(x)
}

// PowScalar raises each element to the power p.
func (b *Backend) PowScalar(x *tensor.RawTensor, p float64) *tensor.RawTensor {
	if b.gpuEligible(x) {
		return b.mustRun("pow_scalar", x, float32Params(float32(p)))
	}
	return b.fallback.PowScalar(x, p)
}

// Structural, reduction and ordering operations run on the CPU fallback:
// tensor data is host-resident, so a GPU round trip for these memory-bound
// operations costs more than it saves.

// BatchMatMul performs batched matrix multiplication for 3D/4D tensors.
func (b *Backend) BatchMatMul(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.fallback.BatchMatMul(a, other)
}

// SumDim sums along a dimension.
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.fallback.SumDim(x, dim, keepDim)
}

// MeanDim averages along a dimension.
func (b *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.fallback.MeanDim(x, dim, keepDim)
}

// SortDim sorts ascending along a dimension.
func (b *Backend) SortDim(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.fallback.SortDim(x, dim)
}

// Reshape changes the tensor's shape without changing its data.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return b.fallback.Reshape(t, newShape)
}

// Transpose permutes the tensor's dimensions.
func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	return b.fallback.Transpose(t, axes...)
}

// Squeeze removes a dimension of size 1.
func (b *Backend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.fallback.Squeeze(x, dim)
}

// Unsqueeze inserts a dimension of size 1.
func (b *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.fallback.Unsqueeze(x, dim)
}

// Cat concatenates tensors along a dimension.
func (b *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.fallback.Cat(tensors, dim)
}

// Narrow slices [start, start+length) along a dimension.
func (b *Backend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	return b.fallback.Narrow(x, dim, start, length)
}

// gpuEligible reports whether a tensor can be handed to the elementwise
// shaders: float32 data and at least one workgroup's worth of elements to
// amortize the transfer overhead.
func (b *Backend) gpuEligible(x *tensor.RawTensor) bool {
	return x.DType() == tensor.Float32 && x.NumElements() >= workgroupSize
}

func (b *Backend) mustRun(name string, x *tensor.RawTensor, extraParams []byte) *tensor.RawTensor {
	result, err := b.runElementwise(name, []*tensor.RawTensor{x}, extraParams)
	if err != nil {
		panic("webgpu: " + name + ": " + err.Error())
	}
	return result
}
