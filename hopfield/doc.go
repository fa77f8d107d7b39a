// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hopfield provides a binary Hopfield associative memory.
//
// # Overview
//
// A Network stores bipolar patterns (every element -1 or +1) in an N×N
// symmetric, zero-diagonal weight matrix using the Hebbian rule, and
// recovers a stored pattern from a degraded copy by asynchronous
// relaxation. This package provides:
//   - Network: Train (batch Hebbian imprinting) and Retrieve (relaxation)
//   - Encoder: grayscale pixel grid to bipolar pattern by thresholding
//   - Injector: random bit-flip noise for robustness experiments
//
// # Basic Usage
//
//	import "github.com/born-ml/recall/hopfield"
//
//	func main() {
//	    net, _ := hopfield.New(16)
//
//	    a, _ := hopfield.FromInts([]int{1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1})
//	    _ = net.Train(hopfield.TrainingSet{a, a.Negate()})
//
//	    noisy, _ := hopfield.InjectNoise(a, 0.1, 42)
//	    restored, _ := net.Retrieve(noisy, 10)
//	}
//
// # Training
//
// Train adds p⊗p for every pattern, zeroes the diagonal and divides the
// whole matrix by the batch size. Calling Train again accumulates on top of
// the existing weights; construct a new Network to start from zero.
//
// # Retrieval
//
// Retrieve runs exactly maxIterations sweeps over neurons 0..N-1. Every
// neuron sees the updates made earlier in the same sweep. Early stopping
// and a random visiting order are available through RetrieveWithOptions.
//
// # Concurrency
//
// A Network has no internal locking. Train and Retrieve calls on the same
// instance must be serialized by the caller.
package hopfield
