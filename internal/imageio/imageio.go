// Package imageio acquires images from URLs or files and turns them into
// normalized grayscale grids ready for encoding.
package imageio

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"net/http"
	"strings"

	"github.com/born-ml/recall/internal/encoding"
	"github.com/born-ml/recall/internal/pattern"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// CubeBaseURL renders a 2x2 puzzle cube as a 150px JPEG.
const CubeBaseURL = "https://visualcube.api.cubing.net/visualcube.php?fmt=jpg&size=150&pzl=2"

// DefaultBlurSigma approximates a radius-1.5 Gaussian blur.
const DefaultBlurSigma = 1.5

// Options controls Preprocess.
type Options struct {
	Width     int     // Target width in pixels.
	Height    int     // Target height in pixels.
	BlurSigma float64 // Gaussian blur sigma applied before resizing. 0 = no blur.
}

// Fetch downloads and decodes an image. A nil client uses http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding image from %s", url)
	}
	return img, nil
}

// Open reads and decodes an image file.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening image %s", path)
	}
	return img, nil
}

// Load fetches ref over HTTP when it is an http(s) URL and opens it as a
// file otherwise.
func Load(ctx context.Context, client *http.Client, ref string) (image.Image, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return Fetch(ctx, client, ref)
	}
	return Open(ref)
}

// Preprocess optionally blurs img, converts it to grayscale, resizes it to
// the target resolution and normalizes every pixel to [0, 1].
func Preprocess(img image.Image, opts Options) (encoding.Grid, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: target resolution %dx%d", pattern.ErrInvalidDimension, opts.Width, opts.Height)
	}
	if opts.BlurSigma < 0 {
		return nil, &pattern.ParameterError{Name: "blur sigma", Value: opts.BlurSigma, Rule: "must be >= 0"}
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", pattern.ErrInvalidDimension)
	}

	src := img
	if opts.BlurSigma > 0 {
		src = imaging.Blur(src, opts.BlurSigma)
	}
	gray := imaging.Grayscale(src)
	small := imaging.Resize(gray, opts.Width, opts.Height, imaging.Lanczos)

	grid := encoding.NewGrid(opts.Width, opts.Height)
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			// Grayscale output has R == G == B.
			grid[y][x] = float64(small.Pix[small.PixOffset(x, y)]) / 255
		}
	}
	return grid, nil
}

// CubeURLs returns n cube render URLs with random x and y rotations in
// [-180, 180] degrees.
func CubeURLs(n int, rng *rand.Rand) []string {
	urls := make([]string, n)
	for i := range urls {
		x := rng.Intn(361) - 180
		y := rng.Intn(361) - 180
		urls[i] = fmt.Sprintf("%s&r=x%dy%d", CubeBaseURL, x, y)
	}
	return urls
}
