// Package dataset provides ready-made image sets to imprint into a network.
package dataset

import (
	"sort"

	"github.com/born-ml/recall/internal/encoding"
	"github.com/petar/GoMNIST"
	"github.com/pkg/errors"
)

// Sample is one labeled grayscale image normalized to [0, 1].
type Sample struct {
	Label int
	Grid  encoding.Grid
}

// LoadMNIST reads the MNIST training set from dir, which must contain the
// gzipped IDX files (train-images-idx3-ubyte.gz and friends).
// limit caps the number of samples returned (0 = all).
func LoadMNIST(dir string, limit int) ([]Sample, error) {
	train, _, err := GoMNIST.Load(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "loading MNIST from %s", dir)
	}
	return FromSet(train, limit)
}

// FromSet converts a GoMNIST set into samples.
func FromSet(set *GoMNIST.Set, limit int) ([]Sample, error) {
	if set == nil {
		return nil, errors.New("nil MNIST set")
	}
	if len(set.Images) != len(set.Labels) {
		return nil, errors.Errorf("MNIST set has %d images but %d labels", len(set.Images), len(set.Labels))
	}

	n := len(set.Images)
	if limit > 0 && limit < n {
		n = limit
	}

	size := set.NRow * set.NCol
	samples := make([]Sample, n)
	for i := 0; i < n; i++ {
		img := set.Images[i]
		if len(img) != size {
			return nil, errors.Errorf("MNIST image %d has %d pixels, want %d", i, len(img), size)
		}

		grid := encoding.NewGrid(set.NCol, set.NRow)
		for p, v := range img {
			grid[p/set.NCol][p%set.NCol] = float64(v) / 255
		}
		samples[i] = Sample{Label: int(set.Labels[i]), Grid: grid}
	}
	return samples, nil
}

// FirstPerLabel picks the first sample of each distinct label, in
// ascending label order, and returns at most k of them.
func FirstPerLabel(samples []Sample, k int) []Sample {
	first := make(map[int]Sample)
	for _, s := range samples {
		if _, ok := first[s.Label]; !ok {
			first[s.Label] = s
		}
	}

	labels := make([]int, 0, len(first))
	for l := range first {
		labels = append(labels, l)
	}
	sort.Ints(labels)

	if k > 0 && k < len(labels) {
		labels = labels[:k]
	}
	out := make([]Sample, len(labels))
	for i, l := range labels {
		out[i] = first[l]
	}
	return out
}
