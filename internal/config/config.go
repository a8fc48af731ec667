package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/latticesim/internal/integrators"
)

const (
	DefaultSize            = 16
	DefaultPrecision       = "float32"
	DefaultStiffness       = 0.1
	DefaultOriginStiffness = 10.0
	DefaultDt              = 1e-4
	DefaultSteps           = 1_000_000
	DefaultSampleEvery     = 1000
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

var (
	Precisions        = []string{"float32", "float64"}
	PerturbationKinds = []string{"none", "point", "random", "gaussian"}
)

type Config struct {
	Size            int                `yaml:"size"`
	Precision       string             `yaml:"precision"`
	Stiffness       float64            `yaml:"stiffness"`
	OriginStiffness float64            `yaml:"origin_stiffness"`
	Dt              float64            `yaml:"dt"`
	Steps           int                `yaml:"steps"`
	Integrator      string             `yaml:"integrator"`
	Workers         int                `yaml:"workers"`
	SampleEvery     int                `yaml:"sample_every"`
	ValidateState   bool               `yaml:"validate_state"`
	Perturbation    PerturbationConfig `yaml:"perturbation"`
}

// PerturbationConfig describes the initial displacement. Point and gaussian
// displace along (X, Y) around cell (Row, Col); random draws each component
// uniformly from [-Amplitude, Amplitude].
type PerturbationConfig struct {
	Kind      string  `yaml:"kind"`
	Row       int     `yaml:"row"`
	Col       int     `yaml:"col"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Amplitude float64 `yaml:"amplitude"`
	Width     float64 `yaml:"width"`
	Seed      int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Size:            DefaultSize,
		Precision:       DefaultPrecision,
		Stiffness:       DefaultStiffness,
		OriginStiffness: DefaultOriginStiffness,
		Dt:              DefaultDt,
		Steps:           DefaultSteps,
		Integrator:      integrators.None,
		SampleEvery:     DefaultSampleEvery,
		ValidateState:   true,
		Perturbation:    PerturbationConfig{Kind: "none"},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays the YAML file at path onto c. Keys missing from the file keep
// their current values.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}

	switch {
	case c.Size < 1:
		return invalid("size %d must be at least 1", c.Size)
	case !slices.Contains(Precisions, c.Precision):
		return invalid("precision %q (want one of %v)", c.Precision, Precisions)
	case !(c.Dt > 0):
		return invalid("dt %g must be positive", c.Dt)
	case c.Steps < 0:
		return invalid("steps %d must not be negative", c.Steps)
	case c.Workers < 0:
		return invalid("workers %d must not be negative", c.Workers)
	case c.SampleEvery < 0:
		return invalid("sample_every %d must not be negative", c.SampleEvery)
	case c.Integrator != "" && !slices.Contains(integrators.Names(), c.Integrator):
		return invalid("integrator %q (want one of %v)", c.Integrator, integrators.Names())
	}

	p := c.Perturbation
	switch p.Kind {
	case "", "none":
	case "point", "gaussian":
		if p.Row < 0 || p.Row >= c.Size || p.Col < 0 || p.Col >= c.Size {
			return invalid("perturbation cell (%d, %d) outside %dx%d lattice", p.Row, p.Col, c.Size, c.Size)
		}
		if p.Kind == "gaussian" && !(p.Width > 0) {
			return invalid("gaussian width %g must be positive", p.Width)
		}
	case "random":
		if p.Amplitude < 0 {
			return invalid("random amplitude %g must not be negative", p.Amplitude)
		}
	default:
		return invalid("perturbation kind %q (want one of %v)", p.Kind, PerturbationKinds)
	}
	return nil
}
