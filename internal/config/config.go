package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/models"
)

const (
	DefaultTFinal = 365.0
	DefaultH      = 0.1
	DefaultOutput = "sirs_euler_results.csv"
)

// PositionalArgs is the order of the command-line overrides.
var PositionalArgs = []string{"S0", "I0", "R0", "beta", "delta", "lambda", "t_final", "h"}

type Config struct {
	Params    models.Params   `yaml:"params"`
	InitState InitStateConfig `yaml:"init_state"`
	TFinal    float64         `yaml:"t_final"`
	H         float64         `yaml:"h"`
	MaxSteps  int             `yaml:"max_steps"`
	Output    string          `yaml:"output"`
}

type InitStateConfig struct {
	S float64 `yaml:"s"`
	I float64 `yaml:"i"`
	R float64 `yaml:"r"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: models.DefaultParams(),
		InitState: InitStateConfig{
			S: models.DefaultS0,
			I: models.DefaultI0,
			R: models.DefaultR0,
		},
		TFinal:   DefaultTFinal,
		H:        DefaultH,
		MaxSteps: dynamo.DefaultMaxSteps,
		Output:   DefaultOutput,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the fields present in a YAML run file onto c.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	defer f.Close()
	return c.Decode(f)
}

// Decode overlays YAML onto c. Unknown keys are rejected so a misplaced
// field such as a top-level beta is not silently ignored. Empty input
// leaves c unchanged.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
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

func (c *Config) GetInitState() dynamo.State {
	return dynamo.State{S: c.InitState.S, I: c.InitState.I, R: c.InitState.R}
}

func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.H,
		Duration:      c.TFinal,
		MaxSteps:      c.MaxSteps,
		ValidateState: true,
	}
}

// Validate checks rates, then initial proportions, then step size and
// horizon. Every failure wraps dynamo.ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if err := models.ValidateState(c.GetInitState()); err != nil {
		return err
	}
	return c.SimConfig().Validate()
}

// ApplyArgs overrides c from positional arguments. It accepts either none or
// exactly len(PositionalArgs) numbers; h is required whenever any override
// is given.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) != len(PositionalArgs) {
		return fmt.Errorf("%w: expected 0 or %d positional arguments (%v), got %d",
			dynamo.ErrInvalidConfig, len(PositionalArgs), PositionalArgs, len(args))
	}

	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a number", dynamo.ErrInvalidConfig, PositionalArgs[i], arg)
		}
		values[i] = v
	}

	c.InitState = InitStateConfig{S: values[0], I: values[1], R: values[2]}
	c.Params = models.Params{Beta: values[3], Delta: values[4], Lambda: values[5]}
	c.TFinal = values[6]
	c.H = values[7]
	return nil
}
