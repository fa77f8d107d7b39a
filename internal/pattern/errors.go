package pattern

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the network, encoder and noise injector.
// Every failure is detected at call entry and is a caller programming error.
var (
	ErrInvalidDimension = errors.New("hopfield: invalid dimension")
	ErrInvalidPattern   = errors.New("hopfield: invalid pattern")
	ErrEmptyTrainingSet = errors.New("hopfield: empty training set")
	ErrInvalidParameter = errors.New("hopfield: invalid parameter")
)

// PatternError describes why a pattern was rejected.
type PatternError struct {
	Index    int  // Position of the pattern in a training set, -1 for a single pattern.
	Length   int  // Actual pattern length.
	Want     int  // Expected pattern length.
	Position int  // Offending element position, -1 for length mismatches.
	Value    int8 // Offending element value.
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	prefix := ErrInvalidPattern.Error()
	if e.Index >= 0 {
		prefix = fmt.Sprintf("%s %d", prefix, e.Index)
	}
	if e.Position < 0 {
		return fmt.Sprintf("%s: length %d, want %d", prefix, e.Length, e.Want)
	}
	return fmt.Sprintf("%s: element %d is %d, want -1 or +1", prefix, e.Position, e.Value)
}

// Unwrap returns ErrInvalidPattern so callers can match with errors.Is.
func (e *PatternError) Unwrap() error {
	return ErrInvalidPattern
}

// ParameterError reports an out-of-range numeric argument.
type ParameterError struct {
	Name  string
	Value float64
	Rule  string
}

// Error implements the error interface.
func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s = %v (%s)", ErrInvalidParameter.Error(), e.Name, e.Value, e.Rule)
}

// Unwrap returns ErrInvalidParameter.
func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}
