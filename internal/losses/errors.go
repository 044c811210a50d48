package losses

import (
	"errors"
	"fmt"

	"github.com/featdist-ml/featdist/internal/tensor"
)

// Sentinel errors for the failure modes of the loss family. All returned
// errors wrap one of these, so callers can test with errors.Is.
var (
	// ErrShapeMismatch reports inputs that are not rank-4 or differ in shape.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidConfiguration reports a non-positive or non-finite
	// transport order supplied to the Wasserstein primitive.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnknownLoss reports a registry lookup with an unregistered name.
	ErrUnknownLoss = errors.New("unknown loss")
)

// checkPair validates that two feature tensors are rank-4 and equal-shaped.
// Every loss front door goes through this before touching the data.
func checkPair(yTrue, yPred tensor.Shape) error {
	if len(yTrue) != 4 || len(yPred) != 4 {
		return fmt.Errorf("%w: inputs must be rank-4 (batch, height, width, channel), got %v and %v",
			ErrShapeMismatch, yTrue, yPred)
	}
	if !yTrue.Equal(yPred) {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, yTrue, yPred)
	}
	return nil
}
