// Package losses implements distance and divergence measures between two
// batches of multi-channel spatial feature maps, used as training
// objectives.
//
// Every loss compares two equal-shaped rank-4 tensors (batch, height,
// width, channel) and returns a tensor of per-sample loss terms — no loss
// reduces over the batch axis; the final scalar reduction belongs to the
// caller's training loop.
//
// All losses except CoWassLoss are stateless and safe for concurrent use;
// CoWassLoss owns a mutable step counter and must be serialized by the
// caller or instantiated per worker.
package losses

import (
	"github.com/featdist-ml/featdist/internal/tensor"
)

// Loss is the uniform contract of every registry variant.
type Loss[B tensor.Backend] interface {
	// Forward computes per-sample loss terms for two equal-shaped rank-4
	// feature tensors. The output shape depends on the variant: (B, 1, 1, C)
	// for the moment losses, (B,) for the covariance family, (B, C) for the
	// transport family.
	Forward(yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error)
}

// FirstMomentLoss penalizes the squared difference of spatial means:
// (mean1 - mean2)^2, shape (B, 1, 1, C).
type FirstMomentLoss[B tensor.Backend] struct {
	backend B
}

// NewFirstMomentLoss creates a new first-moment loss.
func NewFirstMomentLoss[B tensor.Backend](backend B) *FirstMomentLoss[B] {
	return &FirstMomentLoss[B]{backend: backend}
}

// Forward computes (mean1 - mean2)^2 over the spatial axes.
func (l *FirstMomentLoss[B]) Forward(yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if err := checkPair(yTrue.Shape(), yPred.Shape()); err != nil {
		return nil, err
	}

	m1, err := SpatialMoments(yTrue, 1)
	if err != nil {
		return nil, err
	}
	m2, err := SpatialMoments(yPred, 1)
	if err != nil {
		return nil, err
	}

	diff := m1.Mean.Sub(m2.Mean)
	return diff.Mul(diff), nil
}

// SecondMomentLoss penalizes squared differences of spatial means and
// variances: (mean1 - mean2)^2 + (var1 - var2)^2, shape (B, 1, 1, C).
type SecondMomentLoss[B tensor.Backend] struct {
	backend B
}

// NewSecondMomentLoss creates a new second-moment loss.
func NewSecondMomentLoss[B tensor.Backend](backend B) *SecondMomentLoss[B] {
	return &SecondMomentLoss[B]{backend: backend}
}

// Forward computes (mean1 - mean2)^2 + (var1 - var2)^2.
func (l *SecondMomentLoss[B]) Forward(yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if err := checkPair(yTrue.Shape(), yPred.Shape()); err != nil {
		return nil, err
	}

	m1, err := SpatialMoments(yTrue, 2)
	if err != nil {
		return nil, err
	}
	m2, err := SpatialMoments(yPred, 2)
	if err != nil {
		return nil, err
	}

	meanDiff := m1.Mean.Sub(m2.Mean)
	varDiff := m1.Variance.Sub(m2.Variance)
	return meanDiff.Mul(meanDiff).Add(varDiff.Mul(varDiff)), nil
}

// ThirdMomentLoss extends the second-moment loss with the squared skew
// difference: ... + (skew1 - skew2)^2, shape (B, 1, 1, C).
type ThirdMomentLoss[B tensor.Backend] struct {
	backend B
}

// NewThirdMomentLoss creates a new third-moment loss.
func NewThirdMomentLoss[B tensor.Backend](backend B) *ThirdMomentLoss[B] {
	return &ThirdMomentLoss[B]{backend: backend}
}

// Forward computes (mean1-mean2)^2 + (var1-var2)^2 + (skew1-skew2)^2.
func (l *ThirdMomentLoss[B]) Forward(yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if err := checkPair(yTrue.Shape(), yPred.Shape()); err != nil {
		return nil, err
	}

	m1, err := SpatialMoments(yTrue, 3)
	if err != nil {
		return nil, err
	}
	m2, err := SpatialMoments(yPred, 3)
	if err != nil {
		return nil, err
	}

	meanDiff := m1.Mean.Sub(m2.Mean)
	varDiff := m1.Variance.Sub(m2.Variance)
	skewDiff := m1.Skew.Sub(m2.Skew)
	return meanDiff.Mul(meanDiff).
		Add(varDiff.Mul(varDiff)).
		Add(skewDiff.Mul(skewDiff)), nil
}

// GramLoss is the raw second-moment distance with no centering, shape (B,).
type GramLoss[B tensor.Backend] struct {
	backend B
}

// NewGramLoss creates a new Gramian loss.
func NewGramLoss[B tensor.Backend](backend B) *GramLoss[B] {
	return &GramLoss[B]{backend: backend}
}

// Forward passes the inputs straight to GramianDistance.
func (l *GramLoss[B]) Forward(yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return GramianDistance(yTrue, yPred)
}

// CovarLoss combines the squared difference of full-tensor means with the
// Gramian distance of the mean-centered inputs, shape (B,).
type CovarLoss[B tensor.Backend] struct {
	backend B
}

// NewCovarLoss creates a new covariance loss.
func NewCovarLoss[B tensor.Backend](backend B) *CovarLoss[B] {
	return &CovarLoss[B]{backend: backend}
}

// Forward computes (mean1 - mean2)^2 + GramianDistance(centered1, centered2).
func (l *CovarLoss[B]) Forward(yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return covarLoss(yTrue, yPred)
}

// covarLoss is shared between CovarLoss and CoWassLoss.
func covarLoss[B tensor.Backend](yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if err := checkPair(yTrue.Shape(), yPred.Shape()); err != nil {
		return nil, err
	}

	// Mean term from the full-tensor means, squeezed down to (B,).
	meanDiff := fullMean(yTrue).Sub(fullMean(yPred))
	meanLoss := meanDiff.Mul(meanDiff).Squeeze(3).Squeeze(2).Squeeze(1)

	// Gram term from the spatially mean-centered inputs.
	centered1 := yTrue.Sub(spatialMean(yTrue))
	centered2 := yPred.Sub(spatialMean(yPred))
	gramLoss, err := GramianDistance(centered1, centered2)
	if err != nil {
		return nil, err
	}

	return meanLoss.Add(gramLoss), nil
}

// WassLoss is the order-2 transport distance between per-channel spatial
// distributions, shape (B, C).
type WassLoss[B tensor.Backend] struct {
	backend B
}

// NewWassLoss creates a new transport-distance loss.
func NewWassLoss[B tensor.Backend](backend B) *WassLoss[B] {
	return &WassLoss[B]{backend: backend}
}

// Forward computes WassersteinDistance(yTrue, yPred, 2).
func (l *WassLoss[B]) Forward(yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return WassersteinDistance(yTrue, yPred, 2)
}
