// Package noise manufactures degraded copies of bipolar patterns for
// exercising retrieval robustness.
package noise

import (
	"math"
	"math/rand"

	"github.com/born-ml/recall/internal/pattern"
)

// Injector flips randomly chosen entries of a pattern.
//
// An Injector is not safe for concurrent use; give each goroutine its own.
type Injector struct {
	rng *rand.Rand
}

// New creates an injector. seed >= 0 gives a reproducible sequence,
// -1 picks a random seed.
func New(seed int64) *Injector {
	var rng *rand.Rand
	if seed >= 0 {
		rng = rand.New(rand.NewSource(seed)) //nolint:gosec // Intentional deterministic seed for reproducibility
	} else {
		rng = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // Not security-critical
	}
	return &Injector{rng: rng}
}

// Flips returns the number of entries Inject flips for a pattern of length n.
func Flips(n int, level float64) int {
	return int(math.Round(level * float64(n)))
}

// Inject returns a copy of p in which round(level·N) distinct entries,
// chosen uniformly without replacement, are negated. p is not modified.
func (in *Injector) Inject(p pattern.Pattern, level float64) (pattern.Pattern, error) {
	if math.IsNaN(level) || level < 0 || level > 1 {
		return nil, &pattern.ParameterError{Name: "noise level", Value: level, Rule: "must be in [0, 1]"}
	}

	noisy := p.Clone()
	if noisy == nil {
		noisy = pattern.Pattern{}
	}
	k := Flips(len(p), level)
	if k == 0 {
		return noisy, nil
	}

	for _, idx := range in.rng.Perm(len(p))[:k] {
		noisy[idx] = -noisy[idx]
	}
	return noisy, nil
}

// Inject degrades p with a freshly seeded injector.
func Inject(p pattern.Pattern, level float64, seed int64) (pattern.Pattern, error) {
	return New(seed).Inject(p, level)
}
