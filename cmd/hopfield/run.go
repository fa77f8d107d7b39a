package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/born-ml/recall/internal/config"
	"github.com/born-ml/recall/internal/dataset"
	"github.com/born-ml/recall/internal/encoding"
	"github.com/born-ml/recall/internal/experiment"
	"github.com/born-ml/recall/internal/imageio"
	"github.com/born-ml/recall/internal/network"
	"github.com/born-ml/recall/internal/noise"
	"github.com/born-ml/recall/internal/parallel"
	"github.com/born-ml/recall/internal/pattern"
	"github.com/born-ml/recall/internal/render"
	"github.com/pkg/errors"
)

// demoPatterns is the number of random patterns imprinted in demo mode.
const demoPatterns = 3

// mnistScan caps how many MNIST images are scanned for one-per-label exemplars.
const mnistScan = 1000

func run(ctx context.Context, cfg *config.Config, demo bool, logger *slog.Logger, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	items, err := gatherItems(ctx, cfg, demo, logger)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("no training images configured; set sources in the config or pass -demo")
	}

	par := parallel.Sequential()
	if cfg.Network.Parallel {
		par = parallel.DefaultConfig()
	}
	nw, err := network.New(cfg.Network.Width*cfg.Network.Height, network.WithParallel(par))
	if err != nil {
		return err
	}

	order, err := network.ParseOrder(cfg.Network.Order)
	if err != nil {
		return err
	}

	runner := experiment.NewRunner(nw)
	runner.Parallel = par
	runner.Logger = logger
	runner.Retrieve = network.RetrieveOptions{
		MaxIterations: cfg.Network.MaxIterations,
		EarlyStop:     cfg.Network.EarlyStop,
		Order:         order,
		Seed:          cfg.Network.Seed,
	}

	fmt.Fprintf(out, "Imprinting %d patterns into %d neurons...\n", len(items), nw.Size())
	report, err := runner.Run(ctx, experiment.Input{
		Items:       items,
		NoiseLevels: cfg.Noise.Levels,
		Trials:      cfg.Noise.Trials,
		Seed:        cfg.Noise.Seed,
	})
	if err != nil {
		return err
	}

	if err := report.WriteSummary(out); err != nil {
		return err
	}
	if cfg.Output.ASCII {
		if err := renderASCII(out, report, cfg.Network.Width); err != nil {
			return err
		}
	}
	if cfg.Output.Dir != "" {
		if err := savePNGs(cfg.Output.Dir, report, cfg.Network.Width, cfg.Output.Scale); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nRenders written to %s\n", cfg.Output.Dir)
	}
	return nil
}

// gatherItems collects the training items from every configured source.
func gatherItems(ctx context.Context, cfg *config.Config, demo bool, logger *slog.Logger) ([]experiment.Item, error) {
	n := cfg.Network.Width * cfg.Network.Height
	seed := cfg.Noise.Seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // Not security-critical

	if demo {
		items := experiment.RandomItems(n, demoPatterns, rng)
		level := 0.1
		if len(cfg.Noise.Levels) > 0 {
			level = cfg.Noise.Levels[0]
		}
		for i := range items {
			d, err := noise.New(rng.Int63()).Inject(items[i].Clean, level)
			if err != nil {
				return nil, err
			}
			items[i].Degraded = d
		}
		return items, nil
	}

	opts := experiment.ImageOptions{
		Width:             cfg.Network.Width,
		Height:            cfg.Network.Height,
		Threshold:         cfg.Encoding.Threshold,
		DegradedThreshold: cfg.Encoding.DegradedThreshold,
		BlurSigma:         cfg.Encoding.BlurSigma,
	}

	refs := append([]string{}, cfg.Sources.URLs...)
	refs = append(refs, cfg.Sources.Files...)
	refs = append(refs, imageio.CubeURLs(cfg.Sources.Cubes, rng)...)

	client := &http.Client{Timeout: 30 * time.Second}
	var items []experiment.Item
	for i, ref := range refs {
		logger.Info("loading image", "ref", ref)
		img, err := imageio.Load(ctx, client, ref)
		if err != nil {
			return nil, err
		}
		it, err := experiment.ItemFromImage(fmt.Sprintf("image-%02d", i), img, opts)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if cfg.Sources.MNISTDir != "" && cfg.Sources.MNISTCount > 0 {
		samples, err := dataset.LoadMNIST(cfg.Sources.MNISTDir, mnistScan)
		if err != nil {
			return nil, err
		}
		for _, s := range dataset.FirstPerLabel(samples, cfg.Sources.MNISTCount) {
			it, err := experiment.ItemFromImage(fmt.Sprintf("digit-%d", s.Label), gridImage(s.Grid), opts)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
	}
	return items, nil
}

// gridImage turns a normalized grid back into an 8-bit grayscale image so
// it can go through the same resize and blur path as fetched images.
func gridImage(g encoding.Grid) *image.Gray {
	h := len(g)
	w := 0
	if h > 0 {
		w = len(g[0])
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y, row := range g {
		for x, v := range row {
			img.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}

func renderASCII(w io.Writer, report *experiment.Report, width int) error {
	cols := render.TerminalWidth(os.Stdout)
	for _, it := range report.Items {
		for _, part := range []struct {
			label string
			p     pattern.Pattern
		}{
			{"degraded", it.Input},
			{"retrieved", it.Output},
		} {
			fmt.Fprintf(w, "\n%s (%s):\n", it.Name, part.label)
			if err := render.ASCII(w, part.p, width, cols); err != nil {
				return err
			}
		}
	}
	return nil
}

func savePNGs(dir string, report *experiment.Report, width, scale int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	for _, it := range report.Items {
		for suffix, p := range map[string]pattern.Pattern{
			"target":    it.Target,
			"degraded":  it.Input,
			"retrieved": it.Output,
		} {
			path := filepath.Join(dir, fmt.Sprintf("%s-%s-%s.png", report.ID[:8], it.Name, suffix))
			if err := render.SavePNG(path, p, width, scale); err != nil {
				return err
			}
		}
	}
	return nil
}
