// Package network implements a binary Hopfield network: Hebbian batch
// training into a dense symmetric weight matrix and asynchronous
// relaxation for recalling stored patterns from degraded inputs.
//
// A Network is not safe for concurrent use when Train is involved.
// Concurrent Retrieve calls only read the weights and may run in parallel
// as long as no Train call overlaps them.
package network

import (
	"fmt"

	"github.com/born-ml/recall/internal/parallel"
	"github.com/born-ml/recall/internal/pattern"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// capacityRatio is the classical storage limit of a Hopfield network with
// Hebbian weights, expressed as patterns per neuron.
const capacityRatio = 0.138

// Network is a fully connected Hopfield network of N bipolar neurons.
//
// The weight matrix is held in a gonum SymDense. Both triangles of its
// backing array are kept in sync so that every neuron's incoming weights
// form one contiguous row.
type Network struct {
	n        int
	weights  *mat.SymDense
	patterns int
	par      parallel.Config
}

// Option configures a Network.
type Option func(*Network)

// WithParallel sets how Hebbian accumulation is spread across goroutines.
func WithParallel(cfg parallel.Config) Option {
	return func(nw *Network) {
		nw.par = cfg
	}
}

// New creates a network with n neurons and an all-zero weight matrix.
func New(n int, opts ...Option) (*Network, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: neuron count %d (must be > 0)", pattern.ErrInvalidDimension, n)
	}

	nw := &Network{
		n:       n,
		weights: mat.NewSymDense(n, nil),
		par:     parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(nw)
	}
	return nw, nil
}

// Size returns the neuron count N.
func (nw *Network) Size() int {
	return nw.n
}

// Patterns returns how many patterns have been imprinted across all Train calls.
func (nw *Network) Patterns() int {
	return nw.patterns
}

// Capacity returns the approximate number of random patterns the network
// can store before recall degrades (0.138·N).
func (nw *Network) Capacity() int {
	return int(capacityRatio * float64(nw.n))
}

// Weights returns a copy of the weight matrix.
func (nw *Network) Weights() *mat.SymDense {
	w := mat.NewSymDense(nw.n, nil)
	w.CopySym(nw.weights)
	return w
}

// row returns neuron i's incoming weights. The slice aliases the matrix.
func (nw *Network) row(i int) []float64 {
	raw := nw.weights.RawSymmetric()
	return raw.Data[i*raw.Stride : i*raw.Stride+nw.n]
}

// Train imprints a batch of patterns with the Hebbian rule:
//
//	W += p ⊗ p   for each p
//	W[i][i] = 0
//	W /= len(patterns)
//
// The whole set is validated before the matrix is touched, so a failing
// call leaves the weights unchanged. Repeated calls accumulate on top of
// the existing matrix, and the division also rescales what earlier calls
// stored. Construct a new Network to start from zero.
func (nw *Network) Train(patterns pattern.TrainingSet) error {
	if err := patterns.Validate(nw.n); err != nil {
		return err
	}

	vecs := make([][]float64, len(patterns))
	for k, p := range patterns {
		vecs[k] = p.Float64()
	}
	scale := 1 / float64(len(patterns))

	// Each row is owned by a single worker. Row i and row j receive the
	// same products in the same order, so the result is exactly symmetric.
	parallel.For(nw.n, func(i int) {
		row := nw.row(i)
		for _, v := range vecs {
			floats.AddScaled(row, v[i], v)
		}
		row[i] = 0
		floats.Scale(scale, row)
	}, nw.par)

	nw.patterns += len(patterns)
	return nil
}

// Energy returns E = -½ Σᵢⱼ W[i][j]·sᵢ·sⱼ for the given state.
func (nw *Network) Energy(state pattern.Pattern) (float64, error) {
	if err := state.Validate(nw.n); err != nil {
		return 0, err
	}
	return nw.energy(state.Float64()), nil
}

func (nw *Network) energy(s []float64) float64 {
	var e float64
	for i, si := range s {
		e += si * floats.Dot(nw.row(i), s)
	}
	return -0.5 * e
}

// activation returns the net input Σⱼ W[i][j]·s[j] of neuron i.
func (nw *Network) activation(i int, s []float64) float64 {
	return floats.Dot(nw.row(i), s)
}
