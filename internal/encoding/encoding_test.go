package encoding

import (
	"testing"

	"github.com/born-ml/recall/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_RowMajorThreshold(t *testing.T) {
	grid := Grid{
		{0.0, 0.4, 0.6},
		{0.5, 0.31, 1.0},
	}

	got, err := Encode(grid, CanonicalThreshold)
	require.NoError(t, err)
	assert.Equal(t, pattern.Pattern{-1, -1, 1, -1, -1, 1}, got)

	got, err = Encode(grid, DegradedThreshold)
	require.NoError(t, err)
	assert.Equal(t, pattern.Pattern{-1, 1, 1, 1, 1, 1}, got)
}

func TestEncode_ValueEqualToThresholdIsOff(t *testing.T) {
	got, err := Encode(Grid{{0.3, 0.5}}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, pattern.Pattern{-1, -1}, got)
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(nil, 0.5)
	assert.ErrorIs(t, err, pattern.ErrInvalidDimension)

	_, err = Encode(Grid{{}}, 0.5)
	assert.ErrorIs(t, err, pattern.ErrInvalidDimension)

	_, err = Encode(Grid{{0.1, 0.2}, {0.3}}, 0.5)
	assert.ErrorIs(t, err, pattern.ErrInvalidDimension)

	_, err = Encode(Grid{{0.1}}, 1.5)
	assert.ErrorIs(t, err, pattern.ErrInvalidParameter)
}

func TestEncoder_ResolutionCheck(t *testing.T) {
	enc, err := NewEncoder(2, 2, CanonicalThreshold)
	require.NoError(t, err)
	assert.Equal(t, 4, enc.Size())

	p, err := enc.Encode(Grid{{1, 0}, {0, 1}})
	require.NoError(t, err)
	assert.Equal(t, pattern.Pattern{1, -1, -1, 1}, p)

	_, err = enc.Encode(Grid{{1, 0, 1}, {0, 1, 0}})
	assert.ErrorIs(t, err, pattern.ErrInvalidDimension)

	p, err = enc.EncodeWith(Grid{{0.4, 0.2}, {0.35, 0.9}}, DegradedThreshold)
	require.NoError(t, err)
	assert.Equal(t, pattern.Pattern{1, -1, 1, 1}, p)
}

func TestNewEncoder_Errors(t *testing.T) {
	_, err := NewEncoder(0, 4, 0.5)
	assert.ErrorIs(t, err, pattern.ErrInvalidDimension)

	_, err = NewEncoder(4, 4, -0.1)
	assert.ErrorIs(t, err, pattern.ErrInvalidParameter)
}

func TestDecode_RoundTrip(t *testing.T) {
	grid := Grid{
		{0.9, 0.1, 0.8},
		{0.2, 0.7, 0.0},
	}
	p, err := Encode(grid, CanonicalThreshold)
	require.NoError(t, err)

	back, err := Decode(p, 3)
	require.NoError(t, err)
	assert.Equal(t, Grid{{1, 0, 1}, {0, 1, 0}}, back)

	_, err = Decode(p, 4)
	assert.ErrorIs(t, err, pattern.ErrInvalidDimension)

	_, err = Decode(pattern.Pattern{1, 0}, 1)
	assert.ErrorIs(t, err, pattern.ErrInvalidPattern)
}
