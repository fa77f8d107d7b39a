// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package hopfield

import (
	"github.com/born-ml/recall/internal/encoding"
	"github.com/born-ml/recall/internal/network"
	"github.com/born-ml/recall/internal/noise"
	"github.com/born-ml/recall/internal/pattern"
)

// Pattern is an ordered sequence of bipolar values (-1 or +1).
type Pattern = pattern.Pattern

// TrainingSet is an ordered batch of patterns of equal length.
type TrainingSet = pattern.TrainingSet

// Errors. Match with errors.Is.
var (
	ErrInvalidDimension = pattern.ErrInvalidDimension
	ErrInvalidPattern   = pattern.ErrInvalidPattern
	ErrEmptyTrainingSet = pattern.ErrEmptyTrainingSet
	ErrInvalidParameter = pattern.ErrInvalidParameter
)

// FromInts converts a slice of ints to a Pattern, rejecting anything that
// is not -1 or +1.
func FromInts(values []int) (Pattern, error) {
	return pattern.FromInts(values)
}

// Hamming counts the positions where a and b differ.
func Hamming(a, b Pattern) (int, error) {
	return pattern.Hamming(a, b)
}

// Network

// Network is a fully connected Hopfield network of N bipolar neurons.
type Network = network.Network

// Option configures a Network.
type Option = network.Option

// RetrieveOptions controls the relaxation loop.
type RetrieveOptions = network.RetrieveOptions

// Result is the outcome of a relaxation run.
type Result = network.Result

// Order selects the neuron visiting order within a sweep.
type Order = network.Order

// Update orders.
const (
	Sequential = network.Sequential
	Random     = network.Random
)

// DefaultMaxIterations is the number of sweeps Retrieve runs by default.
const DefaultMaxIterations = network.DefaultMaxIterations

// New creates a network with n neurons and an all-zero weight matrix.
//
// Example:
//
//	net, err := hopfield.New(128 * 128)
func New(n int, opts ...Option) (*Network, error) {
	return network.New(n, opts...)
}

// DefaultRetrieveOptions returns 500 sequential sweeps without early stopping.
func DefaultRetrieveOptions() RetrieveOptions {
	return network.DefaultRetrieveOptions()
}

// Encoding

// Grid is a row-major 2D grid of grayscale values normalized to [0, 1].
type Grid = encoding.Grid

// Encoder encodes grids of one declared resolution with a fixed threshold.
type Encoder = encoding.Encoder

// Threshold policies.
const (
	CanonicalThreshold = encoding.CanonicalThreshold
	DegradedThreshold  = encoding.DegradedThreshold
)

// Encode thresholds every pixel (+1 if value > threshold, else -1) and
// flattens the grid row-major.
func Encode(grid Grid, threshold float64) (Pattern, error) {
	return encoding.Encode(grid, threshold)
}

// NewEncoder returns an encoder for width×height grids.
func NewEncoder(width, height int, threshold float64) (*Encoder, error) {
	return encoding.NewEncoder(width, height, threshold)
}

// Noise

// Injector flips randomly chosen entries of a pattern.
type Injector = noise.Injector

// NewInjector creates an injector. seed >= 0 is reproducible, -1 is random.
func NewInjector(seed int64) *Injector {
	return noise.New(seed)
}

// InjectNoise returns a copy of p with round(level·N) distinct entries
// negated.
func InjectNoise(p Pattern, level float64, seed int64) (Pattern, error) {
	return noise.Inject(p, level, seed)
}
