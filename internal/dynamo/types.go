package dynamo

import (
	"fmt"
	"math"
	"sort"
)

// State holds the three compartment proportions of a normalized population.
type State struct {
	S float64
	I float64
	R float64
}

func (s State) Total() float64 {
	return s.S + s.I + s.R
}

func (s State) IsValid() bool {
	for _, v := range s.Values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Add(other State) State {
	return State{S: s.S + other.S, I: s.I + other.I, R: s.R + other.R}
}

func (s State) Scale(factor float64) State {
	return State{S: s.S * factor, I: s.I * factor, R: s.R * factor}
}

func (s State) Values() []float64 {
	return []float64{s.S, s.I, s.R}
}

func (s State) String() string {
	return fmt.Sprintf("S=%.6f I=%.6f R=%.6f", s.S, s.I, s.R)
}

// Sample is one emitted point of a trajectory.
type Sample struct {
	Time float64
	State
}

func (s Sample) String() string {
	return fmt.Sprintf("t=%.4f %s", s.Time, s.State)
}

type System interface {
	Derive(x State, t float64) State
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

// Configurable exposes a system's named rates for tuning.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// ParamNames lists c's parameters in sorted order.
func ParamNames(c Configurable) []string {
	names := make([]string, 0, 3)
	for k := range c.GetParams() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ScaleParam multiplies the named parameter by factor.
func ScaleParam(c Configurable, name string, factor float64) error {
	v, ok := c.GetParams()[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, name)
	}
	return c.SetParam(name, v*factor)
}

// Config controls a single fixed-step run. Dt is the step size h and
// Duration the horizon t_final. MaxSteps bounds the loop, with one step of
// slack for rounding in the accumulated time; zero disables it.
type Config struct {
	Dt            float64
	Duration      float64
	MaxSteps      int
	ValidateState bool
}

const DefaultMaxSteps = 50_000_000

func DefaultConfig() Config {
	return Config{
		Dt:            0.1,
		Duration:      365.0,
		MaxSteps:      DefaultMaxSteps,
		ValidateState: true,
	}
}

// Validate rejects non-positive or non-finite step sizes and horizons, and
// horizons that would need more than MaxSteps steps.
func (c Config) Validate() error {
	if math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) || c.Dt <= 0 {
		return &ConfigError{Field: "h", Value: c.Dt, Reason: "must be positive and finite"}
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration <= 0 {
		return &ConfigError{Field: "t_final", Value: c.Duration, Reason: "must be positive and finite"}
	}
	if c.MaxSteps < 0 {
		return &ConfigError{Field: "max_steps", Value: float64(c.MaxSteps), Reason: "must not be negative"}
	}
	if c.MaxSteps > 0 && c.EstimatedSteps() > c.MaxSteps {
		return &ConfigError{
			Field:  "h",
			Value:  c.Dt,
			Reason: fmt.Sprintf("horizon %.4g needs ~%d steps, limit is %d", c.Duration, c.EstimatedSteps(), c.MaxSteps),
		}
	}
	return nil
}

// EstimatedSteps is ceil(Duration/Dt). Accumulating t by repeated addition
// can add one more step than this when Duration/Dt is a whole number.
func (c Config) EstimatedSteps() int {
	if c.Dt <= 0 {
		return 0
	}
	n := math.Ceil(c.Duration / c.Dt)
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	MassDrift  float64
	StepsTaken int
}

func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}
