package dataset

import (
	"testing"

	"github.com/petar/GoMNIST"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet() *GoMNIST.Set {
	return &GoMNIST.Set{
		NRow: 2,
		NCol: 3,
		Images: []GoMNIST.RawImage{
			{0, 255, 0, 255, 0, 255},
			{255, 255, 255, 0, 0, 0},
			{51, 102, 153, 204, 255, 0},
			{0, 0, 0, 0, 0, 0},
		},
		Labels: []GoMNIST.Label{7, 3, 7, 1},
	}
}

func TestFromSet(t *testing.T) {
	samples, err := FromSet(testSet(), 0)
	require.NoError(t, err)
	require.Len(t, samples, 4)

	assert.Equal(t, 7, samples[0].Label)
	require.Len(t, samples[0].Grid, 2)
	require.Len(t, samples[0].Grid[0], 3)
	assert.Equal(t, []float64{0, 1, 0}, samples[0].Grid[0])
	assert.Equal(t, []float64{1, 0, 1}, samples[0].Grid[1])

	assert.InDelta(t, 0.2, samples[2].Grid[0][0], 1e-12)
	assert.InDelta(t, 0.8, samples[2].Grid[1][0], 1e-12)
}

func TestFromSet_Limit(t *testing.T) {
	samples, err := FromSet(testSet(), 2)
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestFromSet_Errors(t *testing.T) {
	_, err := FromSet(nil, 0)
	assert.Error(t, err)

	set := testSet()
	set.Labels = set.Labels[:2]
	_, err = FromSet(set, 0)
	assert.Error(t, err)

	set = testSet()
	set.Images[1] = GoMNIST.RawImage{1, 2}
	_, err = FromSet(set, 0)
	assert.ErrorContains(t, err, "image 1")
}

func TestLoadMNIST_MissingDir(t *testing.T) {
	_, err := LoadMNIST(t.TempDir(), 10)
	assert.ErrorContains(t, err, "loading MNIST")
}

func TestFirstPerLabel(t *testing.T) {
	samples, err := FromSet(testSet(), 0)
	require.NoError(t, err)

	picked := FirstPerLabel(samples, 0)
	require.Len(t, picked, 3)
	assert.Equal(t, []int{1, 3, 7}, []int{picked[0].Label, picked[1].Label, picked[2].Label})
	assert.Equal(t, samples[0].Grid, picked[2].Grid, "first occurrence of label 7 wins")

	assert.Len(t, FirstPerLabel(samples, 2), 2)
}
