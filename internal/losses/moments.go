package losses

import (
	"fmt"

	"github.com/featdist-ml/featdist/internal/tensor"
)

// skewEpsilon stabilizes the reciprocal square root when a lane's variance
// is near zero. Fixed constant, not a tunable.
const skewEpsilon float32 = 1e-3

// Moments holds the spatial moments of a feature tensor. Every field keeps
// the reduced height/width axes as size 1, shape (B, 1, 1, C), so it
// broadcasts against the original (B, H, W, C) tensor. Variance and Skew
// are nil for orders below 2 and 3 respectively.
type Moments[B tensor.Backend] struct {
	Mean     *tensor.Tensor[float32, B]
	Variance *tensor.Tensor[float32, B]
	Skew     *tensor.Tensor[float32, B]
}

// SpatialMoments computes moments of x over the spatial axes (height,
// width), preserving batch and channel.
//
//   - order 1: mean
//   - order 2: mean and population variance
//   - order 3: mean, variance, and skew — the third standardized moment,
//     computed with the epsilon-stabilized standardization
//     z = (x - mean) / sqrt(variance + 1e-3)
//
// Pure function: x is never modified and nothing is cached between calls.
func SpatialMoments[B tensor.Backend](x *tensor.Tensor[float32, B], order int) (Moments[B], error) {
	if order < 1 || order > 3 {
		return Moments[B]{}, fmt.Errorf("%w: moment order must be 1, 2 or 3, got %d", ErrInvalidConfiguration, order)
	}
	if len(x.Shape()) != 4 {
		return Moments[B]{}, fmt.Errorf("%w: input must be rank-4 (batch, height, width, channel), got %v",
			ErrShapeMismatch, x.Shape())
	}

	m := Moments[B]{Mean: spatialMean(x)}
	if order == 1 {
		return m, nil
	}

	centered := x.Sub(m.Mean)
	m.Variance = spatialMean(centered.Mul(centered))
	if order == 2 {
		return m, nil
	}

	z := centered.Mul(m.Variance.AddScalar(skewEpsilon).Rsqrt())
	m.Skew = spatialMean(z.PowScalar(3))
	return m, nil
}

// spatialMean reduces over the height and width axes with keepdims,
// (B, H, W, C) -> (B, 1, 1, C).
func spatialMean[B tensor.Backend](x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x.MeanDim(1, true).MeanDim(2, true)
}

// fullMean reduces over every non-batch axis with keepdims,
// (B, H, W, C) -> (B, 1, 1, 1).
func fullMean[B tensor.Backend](x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x.MeanDim(3, true).MeanDim(2, true).MeanDim(1, true)
}
