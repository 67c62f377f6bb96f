package models

import (
	"fmt"
	"math"

	"github.com/san-kum/sirsim/internal/dynamo"
)

const (
	DefaultBeta   = 0.155
	DefaultDelta  = 0.100
	DefaultLambda = 0.005

	DefaultS0 = 0.9352
	DefaultI0 = 0.0193
	DefaultR0 = 0.0455
)

// Params are the SIRS rate coefficients. They are fixed for a run.
type Params struct {
	Beta   float64 `yaml:"beta" json:"beta"`
	Delta  float64 `yaml:"delta" json:"delta"`
	Lambda float64 `yaml:"lambda" json:"lambda"`
}

func DefaultParams() Params {
	return Params{Beta: DefaultBeta, Delta: DefaultDelta, Lambda: DefaultLambda}
}

func DefaultState() dynamo.State {
	return dynamo.State{S: DefaultS0, I: DefaultI0, R: DefaultR0}
}

func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"beta", p.Beta},
		{"delta", p.Delta},
		{"lambda", p.Lambda},
	} {
		if err := nonNegative(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateState rejects negative or non-finite initial proportions.
func ValidateState(x dynamo.State) error {
	if err := nonNegative("S0", x.S); err != nil {
		return err
	}
	if err := nonNegative("I0", x.I); err != nil {
		return err
	}
	return nonNegative("R0", x.R)
}

func nonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return &dynamo.ConfigError{Field: name, Value: v, Reason: "must be a non-negative finite number"}
	}
	return nil
}

// BasicReproductionNumber is beta/delta. It is +Inf when delta is zero.
func (p Params) BasicReproductionNumber() float64 {
	if p.Delta == 0 {
		return math.Inf(1)
	}
	return p.Beta / p.Delta
}

// Derive returns dS/dt, dI/dt, dR/dt. The flow terms are evaluated in a
// fixed order so results are reproducible bit for bit.
func Derive(x dynamo.State, p Params) dynamo.State {
	stoI := p.Beta * x.I * x.S
	itoR := p.Delta * x.I
	rtoS := p.Lambda * x.R

	return dynamo.State{
		S: rtoS - stoI,
		I: stoI - itoR,
		R: itoR - rtoS,
	}
}

// SIRS is the time-invariant SIRS system.
type SIRS struct {
	params Params
}

func NewSIRS(p Params) *SIRS {
	return &SIRS{params: p}
}

func (m *SIRS) Params() Params { return m.params }

func (m *SIRS) Derive(x dynamo.State, _ float64) dynamo.State {
	return Derive(x, m.params)
}

func (m *SIRS) GetParams() map[string]float64 {
	return map[string]float64{"beta": m.params.Beta, "delta": m.params.Delta, "lambda": m.params.Lambda}
}

func (m *SIRS) SetParam(name string, value float64) error {
	if err := nonNegative(name, value); err != nil {
		return err
	}
	switch name {
	case "beta":
		m.params.Beta = value
	case "delta":
		m.params.Delta = value
	case "lambda":
		m.params.Lambda = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
