package noise

import (
	"math"
	"testing"

	"github.com/born-ml/recall/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ones(n int) pattern.Pattern {
	p := make(pattern.Pattern, n)
	for i := range p {
		p[i] = pattern.On
	}
	return p
}

func TestInject_ZeroLevelIsIdentity(t *testing.T) {
	p := pattern.Pattern{1, -1, 1, 1, -1}
	got, err := New(1).Inject(p, 0)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	got[0] = -1
	assert.Equal(t, int8(1), p[0], "result must not alias the input")
}

func TestInject_FullLevelFlipsEverything(t *testing.T) {
	p := pattern.Pattern{1, -1, 1, 1, -1}
	got, err := New(1).Inject(p, 1)
	require.NoError(t, err)
	assert.Equal(t, p.Negate(), got)
}

func TestInject_FlipCount(t *testing.T) {
	tests := []struct {
		n     int
		level float64
		want  int
	}{
		{100, 0.1, 10},
		{256, 0.1, 26},
		{16, 0.5, 8},
		{10, 0.04, 0},
		{10, 0.05, 1},
		{3, 0.5, 2},
	}

	for _, tt := range tests {
		p := ones(tt.n)
		got, err := New(7).Inject(p, tt.level)
		require.NoError(t, err)

		d, err := pattern.Hamming(p, got)
		require.NoError(t, err)
		assert.Equal(t, tt.want, d, "n=%d level=%v", tt.n, tt.level)
		assert.Equal(t, tt.want, Flips(tt.n, tt.level))
	}
}

func TestInject_InputUnmodified(t *testing.T) {
	p := ones(64)
	_, err := New(3).Inject(p, 0.3)
	require.NoError(t, err)
	assert.Equal(t, ones(64), p)
}

func TestInject_Seeded(t *testing.T) {
	p := ones(128)
	a, err := Inject(p, 0.2, 11)
	require.NoError(t, err)
	b, err := Inject(p, 0.2, 11)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Inject(p, 0.2, 12)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestInject_UniformCoverage(t *testing.T) {
	// Every index should be picked roughly level·trials times.
	const (
		n      = 20
		trials = 4000
	)
	in := New(5)
	counts := make([]int, n)
	p := ones(n)
	for i := 0; i < trials; i++ {
		got, err := in.Inject(p, 0.25)
		require.NoError(t, err)
		for j, v := range got {
			if v == pattern.Off {
				counts[j]++
			}
		}
	}
	for j, c := range counts {
		assert.InDelta(t, trials/4, c, trials/20, "index %d", j)
	}
}

func TestInject_InvalidLevel(t *testing.T) {
	p := ones(4)
	for _, level := range []float64{-0.1, 1.01, math.NaN(), math.Inf(1)} {
		_, err := New(1).Inject(p, level)
		assert.ErrorIs(t, err, pattern.ErrInvalidParameter, "level=%v", level)
	}
}

func TestInject_EmptyPattern(t *testing.T) {
	got, err := New(1).Inject(pattern.Pattern{}, 0.5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
