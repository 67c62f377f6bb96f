package integrators

import "github.com/san-kum/sirsim/internal/dynamo"

// Euler is the explicit first-order fixed-step method. The update is not
// clamped or renormalized, so S+I+R may drift over long horizons.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	dx := sys.Derive(x, t)
	return dynamo.State{
		S: x.S + dt*dx.S,
		I: x.I + dt*dx.I,
		R: x.R + dt*dx.R,
	}
}
