package losses

import (
	"math/rand"

	"github.com/featdist-ml/featdist/internal/tensor"
)

// RandPairWassLoss computes the order-2 transport distance between
// channel-pair augmented versions of its inputs.
//
// On every call one channel index is drawn uniformly from [0, C). Each
// input is then augmented by concatenating the selected channel with the
// elementwise product of every channel against it — one interaction channel
// per original channel, C+1 channels total — and the transport distance is
// taken between the two augmented tensors. The same index is used for both
// inputs within a call; a fresh index is drawn on the next call.
type RandPairWassLoss[B tensor.Backend] struct {
	backend B
	rng     *rand.Rand
}

// NewRandPairWassLoss creates a new random-pair augmentation loss.
// rng may be nil, in which case the process-level RNG is used; pass a
// seeded *rand.Rand for reproducible channel draws.
func NewRandPairWassLoss[B tensor.Backend](backend B, rng *rand.Rand) *RandPairWassLoss[B] {
	return &RandPairWassLoss[B]{backend: backend, rng: rng}
}

// Forward augments both inputs with the same randomly selected channel and
// computes WassersteinDistance over the result, shape (B, C+1).
func (l *RandPairWassLoss[B]) Forward(yTrue, yPred *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if err := checkPair(yTrue.Shape(), yPred.Shape()); err != nil {
		return nil, err
	}

	channels := yTrue.Shape()[3]
	idx := l.intn(channels)

	return WassersteinDistance(augmentPair(yTrue, idx), augmentPair(yPred, idx), 2)
}

func (l *RandPairWassLoss[B]) intn(n int) int {
	if l.rng != nil {
		return l.rng.Intn(n)
	}
	return rand.Intn(n) //nolint:gosec // G404: statistical use, not security
}

// augmentPair builds the channel-pair feature set for one input: the
// selected channel followed by x * selected (broadcast over channels),
// (B, H, W, C) -> (B, H, W, C+1).
func augmentPair[B tensor.Backend](x *tensor.Tensor[float32, B], idx int) *tensor.Tensor[float32, B] {
	selected := x.Narrow(3, idx, 1) // (B, H, W, 1)
	interactions := x.Mul(selected) // (B, H, W, C)
	return tensor.Cat([]*tensor.Tensor[float32, B]{selected, interactions}, 3)
}
