// Package render draws patterns as terminal text or PNG images.
package render

import (
	"bufio"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/born-ml/recall/internal/encoding"
	"github.com/born-ml/recall/internal/pattern"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Glyphs used by ASCII.
const (
	OnGlyph  = '#'
	OffGlyph = '.'
)

// DefaultColumns is the fallback text width when the output is not a terminal.
const DefaultColumns = 80

// TerminalWidth returns the column count of f if it is a terminal,
// DefaultColumns otherwise.
func TerminalWidth(f *os.File) int {
	if f == nil {
		return DefaultColumns
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return DefaultColumns
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultColumns
	}
	return w
}

// ASCII writes p as rows of OnGlyph/OffGlyph. Images wider than maxCols are
// down-sampled by an integer stride in both directions. maxCols <= 0 disables
// down-sampling.
func ASCII(w io.Writer, p pattern.Pattern, width, maxCols int) error {
	grid, err := encoding.Decode(p, width)
	if err != nil {
		return err
	}

	stride := 1
	if maxCols > 0 && width > maxCols {
		stride = (width + maxCols - 1) / maxCols
	}

	bw := bufio.NewWriter(w)
	for y := 0; y < len(grid); y += stride {
		for x := 0; x < width; x += stride {
			c := byte(OffGlyph)
			if grid[y][x] > 0 {
				c = OnGlyph
			}
			if err := bw.WriteByte(c); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Image renders p as a black and white image, each unit drawn as a
// scale×scale block.
func Image(p pattern.Pattern, width, scale int) (*image.NRGBA, error) {
	if scale <= 0 {
		return nil, &pattern.ParameterError{Name: "scale", Value: float64(scale), Rule: "must be > 0"}
	}
	grid, err := encoding.Decode(p, width)
	if err != nil {
		return nil, err
	}

	height := len(grid)
	img := imaging.New(width*scale, height*scale, color.Black)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if grid[y][x] == 0 {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetNRGBA(x*scale+dx, y*scale+dy, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
				}
			}
		}
	}
	return img, nil
}

// SavePNG writes p to path as an image. The format follows the extension.
func SavePNG(path string, p pattern.Pattern, width, scale int) error {
	img, err := Image(p, width, scale)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}
