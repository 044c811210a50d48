package losses

import (
	"github.com/featdist-ml/featdist/internal/tensor"
)

// CoWassLoss blends the order-2 transport distance with the covariance loss
// under a warmup-scheduled mixing coefficient:
//
//	loss = alpha * wass + covar, alpha = clamp(currStep/warmupSteps, 0, 1)
//
// The transport term is phased in over warmupSteps calls so that early
// training is driven by the cheaper, smoother covariance objective.
//
// CoWassLoss is the only stateful loss: every Forward call increments the
// step counter by exactly one, whether or not the call succeeds. The
// counter is read and written non-atomically, so a single instance must not
// be shared between concurrent callers — serialize Forward or construct one
// instance per training stream. There is no reset.
type CoWassLoss[B tensor.Backend] struct {
	backend     B
	warmupSteps int // immutable after construction
	currStep    int // incremented once per Forward call
}

// NewCoWassLoss creates a new warmup-scheduled combined loss.
// A warmupSteps value of zero or below disables the ramp: the combiner is
// saturated from the first call on (alpha is always 1).
func NewCoWassLoss[B tensor.Backend](backend B, warmupSteps int) *CoWassLoss[B] {
	return &CoWassLoss[B]{
		backend:     backend,
		warmupSteps: warmupSteps,
	}
}

// Alpha returns the current mixing coefficient, clamped to [0, 1]. The very
// first Forward call sees alpha = 0 (unless the ramp is disabled).
func (l *CoWassLoss[B]) Alpha() float32 {
	if l.warmupSteps <= 0 {
		return 1
	}
	alpha := float32(l.currStep) / float32(l.warmupSteps)
	if alpha > 1 {
		alpha = 1
	}
	if alpha < 0 {
		alpha = 0
	}
	return alpha
}

// Step returns the number of Forward calls made so far.
func (l *CoWassLoss[B]) Step() int {
	return l.currStep
}

// Forward computes alpha*wass + covar with alpha taken before the step
// counter advances. Output shape (B, C): the (B,) covariance term is
// broadcast across channels. The counter advances exactly once per call,
// also when the inputs are rejected.
func (l *CoWassLoss[B]) Forward(yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	defer func() { l.currStep++ }()

	wass, err := WassersteinDistance(yTrue, yPred, 2)
	if err != nil {
		return nil, err
	}
	covar, err := covarLoss(yTrue, yPred)
	if err != nil {
		return nil, err
	}

	alpha := l.Alpha()
	return wass.MulScalar(alpha).Add(covar.Unsqueeze(1)), nil
}
