package imageio

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/recall/internal/pattern"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halfImage is white on the left half and black on the right half.
func halfImage(w, h int) *image.NRGBA {
	img := imaging.New(w, h, color.Black)
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetch(t *testing.T) {
	body := pngBytes(t, halfImage(8, 8))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	img, err := Fetch(context.Background(), srv.Client(), srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_NotAnImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	_, err := Load(context.Background(), nil, srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding image")
}

func TestFetch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Fetch(ctx, nil, "http://127.0.0.1:1/none.png")
	assert.Error(t, err)
}

func TestOpenAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "half.png")
	require.NoError(t, imaging.Save(halfImage(6, 4), path))

	img, err := Load(context.Background(), nil, path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())

	_, err = Open(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestPreprocess_SameSize(t *testing.T) {
	grid, err := Preprocess(halfImage(8, 4), Options{Width: 8, Height: 4})
	require.NoError(t, err)
	require.Len(t, grid, 4)
	require.Len(t, grid[0], 8)

	for y := range grid {
		for x := range grid[y] {
			if x < 4 {
				assert.InDelta(t, 1.0, grid[y][x], 1e-9)
			} else {
				assert.InDelta(t, 0.0, grid[y][x], 1e-9)
			}
		}
	}
}

func TestPreprocess_UniformGrayResize(t *testing.T) {
	img := imaging.New(40, 30, color.Gray{Y: 128})
	grid, err := Preprocess(img, Options{Width: 10, Height: 5})
	require.NoError(t, err)
	require.Len(t, grid, 5)
	require.Len(t, grid[0], 10)

	for y := range grid {
		for x := range grid[y] {
			assert.InDelta(t, 128.0/255.0, grid[y][x], 0.01)
		}
	}
}

func TestPreprocess_BlurSoftensEdges(t *testing.T) {
	grid, err := Preprocess(halfImage(16, 4), Options{Width: 16, Height: 4, BlurSigma: DefaultBlurSigma})
	require.NoError(t, err)

	edge := grid[2][7]
	assert.Greater(t, edge, 0.0)
	assert.Less(t, edge, 1.0)
	assert.Greater(t, grid[2][0], 0.9)
	assert.Less(t, grid[2][15], 0.1)
}

func TestPreprocess_Errors(t *testing.T) {
	_, err := Preprocess(halfImage(4, 4), Options{Width: 0, Height: 4})
	assert.ErrorIs(t, err, pattern.ErrInvalidDimension)

	_, err = Preprocess(halfImage(4, 4), Options{Width: 4, Height: 4, BlurSigma: -1})
	assert.ErrorIs(t, err, pattern.ErrInvalidParameter)

	_, err = Preprocess(image.NewNRGBA(image.Rect(0, 0, 0, 0)), Options{Width: 4, Height: 4})
	assert.ErrorIs(t, err, pattern.ErrInvalidDimension)
}

func TestCubeURLs(t *testing.T) {
	urls := CubeURLs(5, rand.New(rand.NewSource(1))) //nolint:gosec // Test fixture
	require.Len(t, urls, 5)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, CubeBaseURL+"&r=x"), u)
	}

	again := CubeURLs(5, rand.New(rand.NewSource(1))) //nolint:gosec // Test fixture
	assert.Equal(t, urls, again)
}
