package losses

import (
	"fmt"
	"math"

	"github.com/featdist-ml/featdist/internal/tensor"
)

// WassersteinDistance computes the order-p transport distance between the
// per-channel empirical spatial distributions of two equal-shaped rank-4
// tensors, shape (B, C).
//
// For every (batch, channel) lane the H*W spatial samples of each input are
// treated as a one-dimensional empirical distribution. The exact 1-D
// estimator is used: sort both sample sets ascending, average the p-th
// power of the pointwise absolute differences, take the p-th root. The
// result is non-negative and symmetric in its arguments.
//
// This is the shared primitive of WassLoss, CoWassLoss and (through channel
// augmentation) RandPairWassLoss.
func WassersteinDistance[B tensor.Backend](a, b *tensor.Tensor[float32, B], p float64) (*tensor.Tensor[float32, B], error) {
	if err := checkPair(a.Shape(), b.Shape()); err != nil {
		return nil, err
	}
	if p <= 0 || math.IsInf(p, 0) || math.IsNaN(p) {
		return nil, fmt.Errorf("%w: transport order p must be positive and finite, got %v", ErrInvalidConfiguration, p)
	}

	sortedA := spatialLanes(a).SortDim(-1)
	sortedB := spatialLanes(b).SortDim(-1)

	// Mean p-th power of the matched-sample gaps, then the p-th root:
	// (B, C, H*W) -> (B, C).
	d := sortedA.Sub(sortedB).Abs().PowScalar(p).MeanDim(-1, false)
	return d.PowScalar(1 / p), nil
}

// spatialLanes lays a feature map out as one contiguous spatial lane per
// (batch, channel): (B, H, W, C) -> (B, C, H*W).
func spatialLanes[B tensor.Backend](x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	s := x.Shape()
	batch, height, width, channels := s[0], s[1], s[2], s[3]
	return x.Transpose(0, 3, 1, 2).Reshape(batch, channels, height*width)
}
