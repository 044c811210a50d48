package losses

import (
	"github.com/featdist-ml/featdist/internal/tensor"
)

// GramianDistance computes the raw second-moment discrepancy between two
// equal-shaped rank-4 tensors: the mean squared difference of their
// per-batch channel Gram matrices, reduced to shape (B,).
//
// This is the single shared primitive behind both GramLoss (uncentered
// inputs) and CovarLoss (mean-centered inputs); the two are bit-identical
// when handed the same tensors because they call this one function.
//
// Inputs are typically already centered by the caller; no centering happens
// here.
func GramianDistance[B tensor.Backend](a, b *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if err := checkPair(a.Shape(), b.Shape()); err != nil {
		return nil, err
	}

	diff := gramian(a).Sub(gramian(b))
	// Mean over both channel axes of the squared Gram difference: (B, C, C) -> (B,)
	return diff.Mul(diff).MeanDim(2, false).MeanDim(1, false), nil
}

// gramian computes the per-batch channel Gram matrix
// G[b, i, j] = sum_hw x[b, h, w, i] * x[b, h, w, j] / (H*W), shape (B, C, C).
func gramian[B tensor.Backend](x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	s := x.Shape()
	batch, height, width, channels := s[0], s[1], s[2], s[3]

	flat := x.Reshape(batch, height*width, channels)   // (B, HW, C)
	g := flat.Transpose(0, 2, 1).BatchMatMul(flat)     // (B, C, C)
	return g.DivScalar(float32(height * width))
}
