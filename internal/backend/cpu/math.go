package cpu

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/featdist-ml/featdist/internal/tensor"
)

// Sqrt computes element-wise square root: sqrt(x).
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mathOp("sqrt", x, math32.Sqrt, math.Sqrt)
}

// Rsqrt computes element-wise reciprocal square root: 1/sqrt(x).
func (cpu *CPUBackend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mathOp("rsqrt", x,
		func(v float32) float32 { return 1.0 / math32.Sqrt(v) },
		func(v float64) float64 { return 1.0 / math.Sqrt(v) })
}

// Abs computes element-wise absolute value: |x|.
func (cpu *CPUBackend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.mathOp("abs", x, math32.Abs, math.Abs)
}

// PowScalar computes element-wise power: x^p.
//
// Integer exponents up to 3 take a multiply fast path; the transport
// distance raises whole lanes to p and p-th roots them, so this is hot.
func (cpu *CPUBackend) PowScalar(x *tensor.RawTensor, p float64) *tensor.RawTensor {
	switch p {
	case 1:
		return x.Clone()
	case 2:
		return cpu.mathOp("pow", x,
			func(v float32) float32 { return v * v },
			func(v float64) float64 { return v * v })
	case 3:
		return cpu.mathOp("pow", x,
			func(v float32) float32 { return v * v * v },
			func(v float64) float64 { return v * v * v })
	}
	p32 := float32(p)
	return cpu.mathOp("pow", x,
		func(v float32) float32 { return math32.Pow(v, p32) },
		func(v float64) float64 { return math.Pow(v, p) })
}

func (cpu *CPUBackend) mathOp(
	name string,
	x *tensor.RawTensor,
	op32 func(v float32) float32,
	op64 func(v float64) float64,
) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		unaryVectorized(result.AsFloat32(), x.AsFloat32(), op32, cpu.par)
	case tensor.Float64:
		unaryVectorized(result.AsFloat64(), x.AsFloat64(), op64, cpu.par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}
