package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/gcstr/progressive/internal/apperr"
)

// FileNames are searched, in order, when no explicit path is given.
var FileNames = []string{"progressive.yaml", "progressive.yml"}

// DefaultDelay is how long the demo's artificially slow operation takes.
const DefaultDelay = 2 * time.Second

// Config is the optional CLI configuration parsed from YAML.
type Config struct {
	Bar  BarConfig  `yaml:"bar"`
	Demo DemoConfig `yaml:"demo"`
	Log  LogConfig  `yaml:"log"`
	// Path is the file the config was read from; empty when defaults are used.
	Path string `yaml:"-"`
}

// BarConfig describes how bars are drawn. Class is an opaque token handed to
// renderers untouched.
type BarConfig struct {
	Class    string   `yaml:"class"`
	Label    string   `yaml:"label"`
	Width    int      `yaml:"width" validate:"omitempty,min=10,max=200"`
	Gradient []string `yaml:"gradient" validate:"omitempty,len=2,dive,hexcolor"`
}

// DemoConfig configures the demo and play commands.
type DemoConfig struct {
	Delay string `yaml:"delay"`
	// DelayDuration is Delay parsed; DefaultDelay when unset.
	DelayDuration time.Duration `yaml:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=auto pretty text json logfmt"`
	File   string `yaml:"file"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when no file is present.
func Default() Config {
	c := Config{}
	_ = c.normalize()
	return c
}

// Load reads and validates configuration from path. When path is empty it
// looks for progressive.yaml or progressive.yml in the current directory and
// falls back to Default when neither exists.
func Load(path string) (Config, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return Config{}, err
	}
	if resolved == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, apperr.Wrap("config.Load", apperr.NotFound, err, "config file %s not found", resolved)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(b, resolved)
}

// Parse decodes YAML bytes; source is used in messages only.
func Parse(b []byte, source string) (Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(b)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(b), yaml.Validator(validate), yaml.Strict())
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, apperr.Wrap("config.Parse", apperr.InvalidInput, err, "parse %s: %s", source, yaml.FormatError(err, false, true))
		}
	}
	cfg.Path = source
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			// Let the read report a missing file.
			return path, nil
		}
		for _, name := range FileNames {
			candidate := filepath.Join(path, name)
			if _, statErr := os.Stat(candidate); statErr == nil {
				return candidate, nil
			} else if !errors.Is(statErr, fs.ErrNotExist) {
				return "", fmt.Errorf("stat %s: %w", candidate, statErr)
			}
		}
		return "", apperr.New("config.Load", apperr.NotFound, "no config file found in %s (looked for %s)", path, strings.Join(FileNames, " or "))
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	for _, name := range FileNames {
		candidate := filepath.Join(cwd, name)
		_, statErr := os.Stat(candidate)
		if statErr == nil {
			return candidate, nil
		}
		if errors.Is(statErr, fs.ErrNotExist) {
			continue
		}
		return "", fmt.Errorf("stat %s: %w", candidate, statErr)
	}
	return "", nil
}

func (c *Config) normalize() error {
	if c.Bar.Width == 0 {
		c.Bar.Width = 40
	}
	if len(c.Bar.Gradient) == 0 {
		c.Bar.Gradient = []string{"#3478F6", "#53B6F9"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}

	c.Demo.DelayDuration = DefaultDelay
	if d := strings.TrimSpace(c.Demo.Delay); d != "" {
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return apperr.Wrap("config.Load", apperr.InvalidInput, err, "demo.delay: invalid duration %q", d)
		}
		if parsed < 0 {
			return apperr.New("config.Load", apperr.InvalidInput, "demo.delay must not be negative, got %s", d)
		}
		c.Demo.DelayDuration = parsed
	}
	return nil
}

// GradientPair returns the two gradient colors.
func (b BarConfig) GradientPair() [2]string {
	if len(b.Gradient) != 2 {
		return [2]string{}
	}
	return [2]string{b.Gradient[0], b.Gradient[1]}
}
