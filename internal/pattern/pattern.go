// Package pattern defines the bipolar vectors stored and recalled by a
// Hopfield network, together with the error taxonomy shared by the rest
// of the module.
package pattern

import "fmt"

// Bipolar unit values.
const (
	Off int8 = -1
	On  int8 = 1
)

// Pattern is an ordered sequence of bipolar values (-1 or +1).
type Pattern []int8

// TrainingSet is an ordered batch of patterns of equal length.
type TrainingSet []Pattern

// New returns a pattern of length n with every element set to Off.
func New(n int) (Pattern, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: pattern length %d (must be > 0)", ErrInvalidDimension, n)
	}
	p := make(Pattern, n)
	for i := range p {
		p[i] = Off
	}
	return p, nil
}

// FromInts converts a slice of ints to a Pattern, rejecting anything that
// is not -1 or +1.
func FromInts(values []int) (Pattern, error) {
	p := make(Pattern, len(values))
	for i, v := range values {
		if v != -1 && v != 1 {
			return nil, &PatternError{Index: -1, Length: len(values), Want: len(values), Position: i, Value: int8(v)}
		}
		p[i] = int8(v)
	}
	return p, nil
}

// Validate checks that p has length n and contains only bipolar values.
func (p Pattern) Validate(n int) error {
	return validate(p, n, -1)
}

func validate(p Pattern, n, index int) error {
	if len(p) != n {
		return &PatternError{Index: index, Length: len(p), Want: n, Position: -1}
	}
	for i, v := range p {
		if v != On && v != Off {
			return &PatternError{Index: index, Length: len(p), Want: n, Position: i, Value: v}
		}
	}
	return nil
}

// Validate checks a whole training set against neuron count n.
// An empty set yields ErrEmptyTrainingSet.
func (ts TrainingSet) Validate(n int) error {
	if len(ts) == 0 {
		return ErrEmptyTrainingSet
	}
	for k, p := range ts {
		if err := validate(p, n, k); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of neurons the pattern addresses.
func (p Pattern) Len() int {
	return len(p)
}

// Clone returns a copy that shares no memory with p.
func (p Pattern) Clone() Pattern {
	if p == nil {
		return nil
	}
	c := make(Pattern, len(p))
	copy(c, p)
	return c
}

// Equal reports whether both patterns have the same length and values.
func (p Pattern) Equal(other Pattern) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Negate returns the pattern with every element flipped.
func (p Pattern) Negate() Pattern {
	n := make(Pattern, len(p))
	for i, v := range p {
		n[i] = -v
	}
	return n
}

// Float64 returns the pattern as a float64 vector, suitable for BLAS-style
// arithmetic.
func (p Pattern) Float64() []float64 {
	f := make([]float64, len(p))
	for i, v := range p {
		f[i] = float64(v)
	}
	return f
}

// Hamming counts the positions where a and b differ.
func Hamming(a, b Pattern) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: hamming of lengths %d and %d", ErrInvalidDimension, len(a), len(b))
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d, nil
}

// Overlap returns the normalized dot product of a and b in [-1, 1].
// 1 means identical, -1 means one is the negation of the other.
func Overlap(a, b Pattern) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, fmt.Errorf("%w: overlap of lengths %d and %d", ErrInvalidDimension, len(a), len(b))
	}
	sum := 0
	for i := range a {
		sum += int(a[i]) * int(b[i])
	}
	return float64(sum) / float64(len(a)), nil
}
