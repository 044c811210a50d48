// Copyright 2025 The featdist Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package losses provides differentiable distance and divergence measures
// between two batches of rank-4 (batch, height, width, channel) feature
// tensors.
//
// # Overview
//
// Eight loss variants are available, individually or through a Registry:
//
//	m1      squared difference of spatial means
//	m2      m1 plus squared difference of spatial variances
//	m3      m2 plus squared difference of standardized skews
//	gram    distance between channel Gramian matrices
//	covar   mean distance plus Gramian distance of centered inputs
//	wass    per-channel sort-based transport distance
//	cowass  warmup-scheduled blend of wass and covar
//	rpwass  transport distance over random channel-pair augmentations
//
// # Basic Usage
//
//	import (
//	    "github.com/featdist-ml/featdist/backend/cpu"
//	    "github.com/featdist-ml/featdist/losses"
//	    "github.com/featdist-ml/featdist/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    registry := losses.NewRegistry(backend)
//
//	    loss, err := registry.Get("wass")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    yTrue := tensor.Randn[float32](tensor.Shape{8, 16, 16, 64}, backend)
//	    yPred := tensor.Randn[float32](tensor.Shape{8, 16, 16, 64}, backend)
//	    out, err := loss.Forward(yTrue, yPred)  // (8, 64)
//	}
//
// Every loss returns per-sample loss terms; reducing them to a training
// scalar is the caller's responsibility. All losses except CoWassLoss are
// stateless and safe for concurrent use.
package losses

import (
	"math/rand"

	"github.com/featdist-ml/featdist/internal/losses"
	"github.com/featdist-ml/featdist/tensor"
)

// Sentinel errors returned by loss construction and evaluation.
var (
	// ErrShapeMismatch reports inputs that are not equal-shaped rank-4 tensors.
	ErrShapeMismatch = losses.ErrShapeMismatch
	// ErrInvalidConfiguration reports invalid construction or call parameters.
	ErrInvalidConfiguration = losses.ErrInvalidConfiguration
	// ErrUnknownLoss reports a Registry lookup for an unregistered name.
	ErrUnknownLoss = losses.ErrUnknownLoss
)

// Loss is the uniform contract of every registry variant.
type Loss[B tensor.Backend] = losses.Loss[B]

// Moments holds per-channel spatial statistics, each of shape (B, 1, 1, C).
type Moments[B tensor.Backend] = losses.Moments[B]

// Loss types. Construct directly for per-instance configuration, or obtain
// shared instances from a Registry.

// FirstMomentLoss penalizes the squared difference of spatial means.
type FirstMomentLoss[B tensor.Backend] = losses.FirstMomentLoss[B]

// SecondMomentLoss penalizes squared differences of spatial means and variances.
type SecondMomentLoss[B tensor.Backend] = losses.SecondMomentLoss[B]

// ThirdMomentLoss extends SecondMomentLoss with the squared skew difference.
type ThirdMomentLoss[B tensor.Backend] = losses.ThirdMomentLoss[B]

// GramLoss is the raw second-moment (Gramian) distance with no centering.
type GramLoss[B tensor.Backend] = losses.GramLoss[B]

// CovarLoss combines the squared mean difference with the Gramian distance
// of the mean-centered inputs.
type CovarLoss[B tensor.Backend] = losses.CovarLoss[B]

// WassLoss is the order-2 transport distance between per-channel spatial
// distributions.
type WassLoss[B tensor.Backend] = losses.WassLoss[B]

// CoWassLoss blends the transport distance with the covariance loss under a
// warmup-scheduled mixing coefficient. It is the only stateful loss.
type CoWassLoss[B tensor.Backend] = losses.CoWassLoss[B]

// RandPairWassLoss computes the transport distance between channel-pair
// augmented versions of its inputs.
type RandPairWassLoss[B tensor.Backend] = losses.RandPairWassLoss[B]

// Registry maps canonical short names to one shared instance of every loss
// variant.
type Registry[B tensor.Backend] = losses.Registry[B]

// Constructors

// NewFirstMomentLoss creates a new first-moment loss.
func NewFirstMomentLoss[B tensor.Backend](backend B) *FirstMomentLoss[B] {
	return losses.NewFirstMomentLoss(backend)
}

// NewSecondMomentLoss creates a new second-moment loss.
func NewSecondMomentLoss[B tensor.Backend](backend B) *SecondMomentLoss[B] {
	return losses.NewSecondMomentLoss(backend)
}

// NewThirdMomentLoss creates a new third-moment loss.
func NewThirdMomentLoss[B tensor.Backend](backend B) *ThirdMomentLoss[B] {
	return losses.NewThirdMomentLoss(backend)
}

// NewGramLoss creates a new Gramian loss.
func NewGramLoss[B tensor.Backend](backend B) *GramLoss[B] {
	return losses.NewGramLoss(backend)
}

// NewCovarLoss creates a new covariance loss.
func NewCovarLoss[B tensor.Backend](backend B) *CovarLoss[B] {
	return losses.NewCovarLoss(backend)
}

// NewWassLoss creates a new transport-distance loss.
func NewWassLoss[B tensor.Backend](backend B) *WassLoss[B] {
	return losses.NewWassLoss(backend)
}

// NewCoWassLoss creates a new warmup-scheduled combined loss. A warmupSteps
// value of zero or below disables the ramp.
func NewCoWassLoss[B tensor.Backend](backend B, warmupSteps int) *CoWassLoss[B] {
	return losses.NewCoWassLoss(backend, warmupSteps)
}

// NewRandPairWassLoss creates a new random-pair augmentation loss. rng may
// be nil, in which case the process-level RNG is used.
func NewRandPairWassLoss[B tensor.Backend](backend B, rng *rand.Rand) *RandPairWassLoss[B] {
	return losses.NewRandPairWassLoss(backend, rng)
}

// NewRegistry constructs the full loss table for a backend.
func NewRegistry[B tensor.Backend](backend B) *Registry[B] {
	return losses.NewRegistry(backend)
}

// Shared primitives

// SpatialMoments computes per-channel spatial statistics up to the given
// order (1 = mean, 2 = +variance, 3 = +standardized skew).
func SpatialMoments[B tensor.Backend](x *tensor.Tensor[float32, B], order int) (Moments[B], error) {
	return losses.SpatialMoments(x, order)
}

// GramianDistance computes the mean squared distance between the channel
// Gramian matrices of two equal-shaped rank-4 tensors, shape (B,).
func GramianDistance[B tensor.Backend](a, b *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return losses.GramianDistance(a, b)
}

// WassersteinDistance computes the order-p transport distance between the
// per-channel spatial distributions of two equal-shaped rank-4 tensors,
// shape (B, C).
func WassersteinDistance[B tensor.Backend](a, b *tensor.Tensor[float32, B], p float64) (*tensor.Tensor[float32, B], error) {
	return losses.WassersteinDistance(a, b, p)
}
