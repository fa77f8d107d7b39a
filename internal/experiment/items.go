package experiment

import (
	"image"
	"math/rand"
	"strconv"

	"github.com/born-ml/recall/internal/encoding"
	"github.com/born-ml/recall/internal/imageio"
	"github.com/born-ml/recall/internal/pattern"
	"github.com/pkg/errors"
)

// Item is one stored pattern and, optionally, a degraded version of it to
// recover.
type Item struct {
	Name     string
	Clean    pattern.Pattern
	Degraded pattern.Pattern // nil when the item only takes part in noise trials.
}

// ImageOptions controls how an image becomes an Item.
type ImageOptions struct {
	Width             int
	Height            int
	Threshold         float64 // Applied to the clean image.
	DegradedThreshold float64 // Applied to the blurred image.
	BlurSigma         float64 // 0 = no degraded pattern.
}

// ItemFromImage encodes img as a clean pattern and, when BlurSigma > 0, a
// blurred pattern thresholded with DegradedThreshold.
func ItemFromImage(name string, img image.Image, opts ImageOptions) (Item, error) {
	enc, err := encoding.NewEncoder(opts.Width, opts.Height, opts.Threshold)
	if err != nil {
		return Item{}, err
	}

	grid, err := imageio.Preprocess(img, imageio.Options{Width: opts.Width, Height: opts.Height})
	if err != nil {
		return Item{}, errors.Wrapf(err, "preprocessing %s", name)
	}
	clean, err := enc.Encode(grid)
	if err != nil {
		return Item{}, errors.Wrapf(err, "encoding %s", name)
	}
	item := Item{Name: name, Clean: clean}

	if opts.BlurSigma > 0 {
		blurred, err := imageio.Preprocess(img, imageio.Options{Width: opts.Width, Height: opts.Height, BlurSigma: opts.BlurSigma})
		if err != nil {
			return Item{}, errors.Wrapf(err, "blurring %s", name)
		}
		item.Degraded, err = enc.EncodeWith(blurred, opts.DegradedThreshold)
		if err != nil {
			return Item{}, errors.Wrapf(err, "encoding blurred %s", name)
		}
	}
	return item, nil
}

// ItemFromGrid encodes an already normalized grid as a clean-only item.
func ItemFromGrid(name string, grid encoding.Grid, threshold float64) (Item, error) {
	p, err := encoding.Encode(grid, threshold)
	if err != nil {
		return Item{}, errors.Wrapf(err, "encoding %s", name)
	}
	return Item{Name: name, Clean: p}, nil
}

// RandomItems returns k uniformly random patterns of length n, useful as
// a near-orthogonal training set when no images are available.
func RandomItems(n, k int, rng *rand.Rand) []Item {
	items := make([]Item, k)
	for i := range items {
		p := make(pattern.Pattern, n)
		for j := range p {
			p[j] = pattern.Off
			if rng.Intn(2) == 1 {
				p[j] = pattern.On
			}
		}
		items[i] = Item{Name: "random-" + strconv.Itoa(i), Clean: p}
	}
	return items
}
