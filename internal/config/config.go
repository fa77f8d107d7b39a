// Package config handles experiment configuration loading.
package config

import (
	"math"
	"os"
	"path/filepath"

	"github.com/born-ml/recall/internal/encoding"
	"github.com/born-ml/recall/internal/imageio"
	"github.com/born-ml/recall/internal/network"
	"github.com/born-ml/recall/internal/pattern"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Encoding EncodingConfig `yaml:"encoding"`
	Noise    NoiseConfig    `yaml:"noise"`
	Sources  SourcesConfig  `yaml:"sources"`
	Output   OutputConfig   `yaml:"output"`
}

// NetworkConfig holds network and retrieval settings.
type NetworkConfig struct {
	// Width and Height are the image resolution; N = Width·Height.
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	MaxIterations int    `yaml:"max_iterations"`
	EarlyStop     bool   `yaml:"early_stop"`
	Order         string `yaml:"order"` // "sequential" or "random"
	Seed          int64  `yaml:"seed"`  // Seed for random order, -1 = random.
	Parallel      bool   `yaml:"parallel"`
}

// EncodingConfig holds thresholding and degradation settings.
type EncodingConfig struct {
	Threshold         float64 `yaml:"threshold"`
	DegradedThreshold float64 `yaml:"degraded_threshold"`
	BlurSigma         float64 `yaml:"blur_sigma"` // 0 disables the blurred path.
}

// NoiseConfig holds random bit-flip trial settings.
type NoiseConfig struct {
	Levels []float64 `yaml:"levels"`
	Trials int       `yaml:"trials"`
	Seed   int64     `yaml:"seed"`
}

// SourcesConfig lists where training images come from.
type SourcesConfig struct {
	URLs       []string `yaml:"urls"`
	Files      []string `yaml:"files"`
	Cubes      int      `yaml:"cubes"` // Number of random cube renders to fetch.
	MNISTDir   string   `yaml:"mnist_dir"`
	MNISTCount int      `yaml:"mnist_count"` // Digits to imprint, one per label.
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	Dir   string `yaml:"dir"` // PNG output directory, empty = no PNGs.
	Scale int    `yaml:"scale"`
	ASCII bool   `yaml:"ascii"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			Width:         128,
			Height:        128,
			MaxIterations: network.DefaultMaxIterations,
			Order:         network.Sequential.String(),
			Seed:          -1,
			Parallel:      true,
		},
		Encoding: EncodingConfig{
			Threshold:         encoding.DegradedThreshold,
			DegradedThreshold: encoding.DegradedThreshold,
			BlurSigma:         imageio.DefaultBlurSigma,
		},
		Noise: NoiseConfig{
			Levels: []float64{0.1},
			Trials: 10,
			Seed:   -1,
		},
		Sources: SourcesConfig{
			Cubes: 3,
		},
		Output: OutputConfig{
			Scale: 2,
			ASCII: true,
		},
	}
}

// Validate checks value ranges. Errors match pattern.ErrInvalidParameter.
func (c *Config) Validate() error {
	if c.Network.Width <= 0 || c.Network.Height <= 0 {
		return errors.Wrapf(pattern.ErrInvalidParameter, "network resolution %dx%d", c.Network.Width, c.Network.Height)
	}
	if c.Network.MaxIterations < 0 {
		return errors.Wrapf(pattern.ErrInvalidParameter, "network.max_iterations = %d", c.Network.MaxIterations)
	}
	if _, err := network.ParseOrder(c.Network.Order); err != nil {
		return errors.Wrap(err, "network.order")
	}
	for name, v := range map[string]float64{
		"encoding.threshold":          c.Encoding.Threshold,
		"encoding.degraded_threshold": c.Encoding.DegradedThreshold,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return errors.Wrapf(pattern.ErrInvalidParameter, "%s = %v", name, v)
		}
	}
	if c.Encoding.BlurSigma < 0 {
		return errors.Wrapf(pattern.ErrInvalidParameter, "encoding.blur_sigma = %v", c.Encoding.BlurSigma)
	}
	for _, l := range c.Noise.Levels {
		if math.IsNaN(l) || l < 0 || l > 1 {
			return errors.Wrapf(pattern.ErrInvalidParameter, "noise.levels contains %v", l)
		}
	}
	if c.Noise.Trials < 0 {
		return errors.Wrapf(pattern.ErrInvalidParameter, "noise.trials = %d", c.Noise.Trials)
	}
	if c.Sources.Cubes < 0 || c.Sources.MNISTCount < 0 {
		return errors.Wrap(pattern.ErrInvalidParameter, "sources counts must be >= 0")
	}
	if c.Output.Scale <= 0 {
		return errors.Wrapf(pattern.ErrInvalidParameter, "output.scale = %d", c.Output.Scale)
	}
	return nil
}

// Load loads configuration from a file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create config directory")
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if _, err := os.Stat("config/recall.yaml"); err == nil {
		return "config/recall.yaml"
	}
	return "recall.yaml"
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists
	}

	return Default().Save(path)
}
