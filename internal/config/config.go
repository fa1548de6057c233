// Package config loads cin's optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/s0shaw/cin/internal/bitstream"
)

const (
	appDir   = "cin"
	fileName = "config.yaml"
)

// CompareConfig tunes the image difference detector.
type CompareConfig struct {
	Threshold        float32 `yaml:"threshold"`         // grey-level difference considered a change
	BlurKernel       int     `yaml:"blur_kernel"`       // odd Gaussian kernel size, 0 disables blurring
	DilateIterations int     `yaml:"dilate_iterations"` // merges nearby changed pixels into one region
	MinArea          float64 `yaml:"min_area"`          // contours smaller than this are ignored
}

// Config is the full settings file.
type Config struct {
	Terminator string        `yaml:"terminator"`
	Strict     bool          `yaml:"strict"`
	Output     string        `yaml:"output"` // default stego-image path for encode
	LogLevel   string        `yaml:"log_level"`
	Compare    CompareConfig `yaml:"compare"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Terminator: bitstream.DefaultTerminator,
		Output:     "encoded_image.png",
		LogLevel:   "warn",
		Compare: CompareConfig{
			Threshold:        30,
			BlurKernel:       5,
			DilateIterations: 2,
			MinArea:          10,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/cin/config.yaml (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Load reads the settings at path over the defaults. With an empty path the
// default location is tried and a missing file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML settings over the defaults and validates them.
func Parse(data []byte) (*Config, error) {
	conf := Default()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Terminator == "" {
		c.Terminator = bitstream.DefaultTerminator
	}
	if _, err := bitstream.New(bitstream.Options{Terminator: c.Terminator}); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	if c.Compare.Threshold < 0 || c.Compare.Threshold > 255 {
		return fmt.Errorf("config: compare.threshold %v outside 0-255", c.Compare.Threshold)
	}
	if c.Compare.BlurKernel < 0 || (c.Compare.BlurKernel > 0 && c.Compare.BlurKernel%2 == 0) {
		return fmt.Errorf("config: compare.blur_kernel must be 0 or odd, got %d", c.Compare.BlurKernel)
	}
	if c.Compare.DilateIterations < 0 {
		return fmt.Errorf("config: compare.dilate_iterations must not be negative")
	}
	return nil
}

// Save writes conf as YAML.
func Save(path string, conf *Config) error {
	data, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
