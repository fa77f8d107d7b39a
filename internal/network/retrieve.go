package network

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/born-ml/recall/internal/pattern"
)

// DefaultMaxIterations is the number of sweeps Retrieve runs by default.
const DefaultMaxIterations = 500

// Order selects the neuron visiting order within a sweep.
type Order int

const (
	// Sequential visits neurons 0..N-1 in index order.
	Sequential Order = iota
	// Random visits neurons in a fresh random permutation every sweep.
	Random
)

// String returns the config name of the order.
func (o Order) String() string {
	switch o {
	case Sequential:
		return "sequential"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder parses "sequential" or "random". The empty string is Sequential.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return Sequential, nil
	case "random":
		return Random, nil
	default:
		return Sequential, fmt.Errorf("%w: unknown update order %q", pattern.ErrInvalidParameter, s)
	}
}

// RetrieveOptions controls the relaxation loop.
type RetrieveOptions struct {
	// MaxIterations is the number of full sweeps to run. Must be >= 0.
	MaxIterations int

	// EarlyStop ends relaxation after the first sweep that flips no neuron.
	// Off by default: the loop always runs MaxIterations sweeps.
	EarlyStop bool

	// Order is the neuron visiting order within a sweep.
	Order Order

	// Seed for the Random order. -1 = random.
	Seed int64

	// OnUpdate, if set, is called after every single-neuron update.
	// state is the live relaxation state and must not be retained or modified.
	OnUpdate func(sweep, neuron int, state pattern.Pattern)
}

// DefaultRetrieveOptions returns the baseline behavior: 500 sequential
// sweeps without early stopping.
func DefaultRetrieveOptions() RetrieveOptions {
	return RetrieveOptions{
		MaxIterations: DefaultMaxIterations,
		Order:         Sequential,
		Seed:          -1,
	}
}

// Result is the outcome of a relaxation run.
type Result struct {
	Pattern   pattern.Pattern // Final state.
	Sweeps    int             // Sweeps actually run.
	Flips     int             // Total neuron flips over all sweeps.
	Converged bool            // The last sweep flipped nothing.
}

// Retrieve relaxes p for exactly maxIterations sequential sweeps and
// returns the final state. The input is never modified; maxIterations == 0
// returns an unchanged copy.
func (nw *Network) Retrieve(p pattern.Pattern, maxIterations int) (pattern.Pattern, error) {
	res, err := nw.RetrieveWithOptions(p, RetrieveOptions{MaxIterations: maxIterations, Seed: -1})
	if err != nil {
		return nil, err
	}
	return res.Pattern, nil
}

// RetrieveWithOptions runs asynchronous relaxation from p.
//
// Within a sweep each neuron i computes Σⱼ W[i][j]·s[j] over the current
// state, so updates made earlier in the sweep are visible to later neurons,
// and becomes +1 if that sum is >= 0, otherwise -1.
func (nw *Network) RetrieveWithOptions(p pattern.Pattern, opts RetrieveOptions) (Result, error) {
	if err := p.Validate(nw.n); err != nil {
		return Result{}, err
	}
	if opts.MaxIterations < 0 {
		return Result{}, &pattern.ParameterError{
			Name:  "max iterations",
			Value: float64(opts.MaxIterations),
			Rule:  "must be >= 0",
		}
	}

	state := p.Clone()
	s := state.Float64()

	order := make([]int, nw.n)
	for i := range order {
		order[i] = i
	}

	var rng *rand.Rand
	if opts.Order == Random {
		rng = newRand(opts.Seed)
	}

	var res Result
	for sweep := 0; sweep < opts.MaxIterations; sweep++ {
		if rng != nil {
			rng.Shuffle(len(order), func(a, b int) {
				order[a], order[b] = order[b], order[a]
			})
		}

		flips := 0
		for _, i := range order {
			next := pattern.On
			if nw.activation(i, s) < 0 {
				next = pattern.Off
			}
			if next != state[i] {
				state[i] = next
				s[i] = float64(next)
				flips++
			}
			if opts.OnUpdate != nil {
				opts.OnUpdate(sweep, i, state)
			}
		}

		res.Sweeps++
		res.Flips += flips
		res.Converged = flips == 0
		if opts.EarlyStop && res.Converged {
			break
		}
	}

	res.Pattern = state
	return res, nil
}

// IsFixedPoint reports whether one sequential sweep leaves state unchanged.
func (nw *Network) IsFixedPoint(state pattern.Pattern) (bool, error) {
	res, err := nw.RetrieveWithOptions(state, RetrieveOptions{MaxIterations: 1, Seed: -1})
	if err != nil {
		return false, err
	}
	return res.Converged, nil
}

func newRand(seed int64) *rand.Rand {
	if seed >= 0 {
		return rand.New(rand.NewSource(seed)) //nolint:gosec // Deterministic seed for reproducible sweeps
	}
	return rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // Not security-critical
}
