package losses

import (
	"fmt"
	"sort"
	"strings"

	"github.com/featdist-ml/featdist/internal/tensor"
)

// Registry maps canonical short names to one shared instance of every loss
// variant. The table is built eagerly at construction and never mutated
// afterwards, so lookups are safe for concurrent use.
//
// Registered names: m1, m2, covar, gram, m3, wass, cowass, rpwass.
type Registry[B tensor.Backend] struct {
	losses map[string]Loss[B]
}

// NewRegistry constructs the full loss table for a backend.
//
// The cowass entry is built with warmup disabled (saturated from the first
// call) and rpwass draws from the process-level RNG; construct those two
// directly when a warmup ramp or a seeded RNG is needed.
func NewRegistry[B tensor.Backend](backend B) *Registry[B] {
	return &Registry[B]{
		losses: map[string]Loss[B]{
			"m1":     NewFirstMomentLoss(backend),
			"m2":     NewSecondMomentLoss(backend),
			"covar":  NewCovarLoss(backend),
			"gram":   NewGramLoss(backend),
			"m3":     NewThirdMomentLoss(backend),
			"wass":   NewWassLoss(backend),
			"cowass": NewCoWassLoss(backend, 0),
			"rpwass": NewRandPairWassLoss(backend, nil),
		},
	}
}

// Get returns the loss registered under name.
func (r *Registry[B]) Get(name string) (Loss[B], error) {
	loss, ok := r.losses[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownLoss, name, strings.Join(r.Names(), ", "))
	}
	return loss, nil
}

// Names returns the registered loss names in sorted order.
func (r *Registry[B]) Names() []string {
	names := make([]string, 0, len(r.losses))
	for name := range r.losses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
