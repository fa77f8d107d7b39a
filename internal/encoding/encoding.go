// Package encoding converts normalized grayscale pixel grids into bipolar
// patterns and back.
package encoding

import (
	"fmt"
	"math"

	"github.com/born-ml/recall/internal/pattern"
)

// Threshold policies.
const (
	// CanonicalThreshold is used for clean training images.
	CanonicalThreshold = 0.5
	// DegradedThreshold is used for blurred inputs, whose edges wash out
	// towards mid-gray.
	DegradedThreshold = 0.3
)

// Grid is a row-major 2D grid of grayscale values normalized to [0, 1].
type Grid [][]float64

// NewGrid allocates a zeroed grid with the given dimensions.
func NewGrid(width, height int) Grid {
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]float64, width)
	}
	return g
}

// Dims returns the grid width and height. It fails on an empty or ragged grid.
func (g Grid) Dims() (width, height int, err error) {
	if len(g) == 0 || len(g[0]) == 0 {
		return 0, 0, fmt.Errorf("%w: empty pixel grid", pattern.ErrInvalidDimension)
	}
	width = len(g[0])
	for y, row := range g {
		if len(row) != width {
			return 0, 0, fmt.Errorf("%w: row %d has %d pixels, want %d", pattern.ErrInvalidDimension, y, len(row), width)
		}
	}
	return width, len(g), nil
}

// Encode thresholds every pixel: +1 if value > threshold, -1 otherwise.
// The result is flattened row-major, so positions align between training
// and retrieval as long as both go through Encode.
func Encode(grid Grid, threshold float64) (pattern.Pattern, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, &pattern.ParameterError{Name: "threshold", Value: threshold, Rule: "must be in [0, 1]"}
	}
	width, height, err := grid.Dims()
	if err != nil {
		return nil, err
	}

	p := make(pattern.Pattern, 0, width*height)
	for _, row := range grid {
		for _, v := range row {
			if v > threshold {
				p = append(p, pattern.On)
			} else {
				p = append(p, pattern.Off)
			}
		}
	}
	return p, nil
}

// Decode maps a pattern back to a grid of the given width: +1 becomes 1
// (white) and -1 becomes 0 (black).
func Decode(p pattern.Pattern, width int) (Grid, error) {
	if width <= 0 || len(p) == 0 || len(p)%width != 0 {
		return nil, fmt.Errorf("%w: pattern of length %d does not tile width %d", pattern.ErrInvalidDimension, len(p), width)
	}
	if err := p.Validate(len(p)); err != nil {
		return nil, err
	}

	g := NewGrid(width, len(p)/width)
	for i, v := range p {
		if v == pattern.On {
			g[i/width][i%width] = 1
		}
	}
	return g, nil
}

// Encoder encodes grids of one declared resolution with a fixed threshold.
type Encoder struct {
	Width     int
	Height    int
	Threshold float64
}

// NewEncoder returns an encoder for width×height grids.
func NewEncoder(width, height int, threshold float64) (*Encoder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%d", pattern.ErrInvalidDimension, width, height)
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, &pattern.ParameterError{Name: "threshold", Value: threshold, Rule: "must be in [0, 1]"}
	}
	return &Encoder{Width: width, Height: height, Threshold: threshold}, nil
}

// Size returns the pattern length the encoder produces.
func (e *Encoder) Size() int {
	return e.Width * e.Height
}

// Encode checks grid against the declared resolution and encodes it with
// the encoder's threshold.
func (e *Encoder) Encode(grid Grid) (pattern.Pattern, error) {
	return e.EncodeWith(grid, e.Threshold)
}

// EncodeWith is Encode with an explicit threshold, for degraded inputs that
// use a different policy than the training images.
func (e *Encoder) EncodeWith(grid Grid, threshold float64) (pattern.Pattern, error) {
	width, height, err := grid.Dims()
	if err != nil {
		return nil, err
	}
	if width != e.Width || height != e.Height {
		return nil, fmt.Errorf("%w: grid is %dx%d, want %dx%d", pattern.ErrInvalidDimension, width, height, e.Width, e.Height)
	}
	return Encode(grid, threshold)
}
