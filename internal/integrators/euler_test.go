package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/models"
)

type decay struct{}

func (d *decay) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{S: -x.S, I: -2 * x.I, R: 0}
}

func TestEulerSingleStep(t *testing.T) {
	p := models.DefaultParams()
	x := models.DefaultState()
	h := 0.1

	got := NewEuler().Step(models.NewSIRS(p), x, 0, h)

	dx := models.Derive(x, p)
	want := dynamo.State{S: x.S + h*dx.S, I: x.I + h*dx.I, R: x.R + h*dx.R}
	if got != want {
		t.Errorf("Step = %+v, want %+v", got, want)
	}

	ref := dynamo.State{S: 0.93494298492, I: 0.01938676508, R: 0.04567025}
	if math.Abs(got.S-ref.S) > 1e-12 || math.Abs(got.I-ref.I) > 1e-12 || math.Abs(got.R-ref.R) > 1e-12 {
		t.Errorf("Step = %+v, want ~%+v", got, ref)
	}
}

func TestEulerDecay(t *testing.T) {
	integ := NewEuler()
	x := dynamo.State{S: 1, I: 1, R: 1}
	dt := 0.001
	steps := 1000

	for i := 0; i < steps; i++ {
		x = integ.Step(&decay{}, x, float64(i)*dt, dt)
	}

	if math.Abs(x.S-math.Exp(-1)) > 1e-3 {
		t.Errorf("S error too large: got %.6f, expected %.6f", x.S, math.Exp(-1))
	}
	if math.Abs(x.I-math.Exp(-2)) > 1e-3 {
		t.Errorf("I error too large: got %.6f, expected %.6f", x.I, math.Exp(-2))
	}
	if x.R != 1 {
		t.Errorf("R should be unchanged, got %.6f", x.R)
	}
}

func TestEulerNoRenormalization(t *testing.T) {
	// A large step pushes S negative; the stepper must not clamp it.
	p := models.Params{Beta: 5, Delta: 0.1, Lambda: 0}
	x := dynamo.State{S: 0.5, I: 0.5, R: 0}

	got := NewEuler().Step(models.NewSIRS(p), x, 0, 1)
	if got.S >= 0 {
		t.Errorf("expected overshoot below zero, got S=%v", got.S)
	}
}
