package sim

import (
	"iter"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// Trajectory is a lazy, single-use sequence of samples. The first sample is
// the initial condition at t=0; each later one follows one fixed step.
type Trajectory struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	cfg        dynamo.Config

	x       dynamo.State
	t       float64
	steps   int
	started bool
	done    bool
	err     error
}

func newTrajectory(sys dynamo.System, integrator dynamo.Integrator, x0 dynamo.State, cfg dynamo.Config) *Trajectory {
	return &Trajectory{
		sys:        sys,
		integrator: integrator,
		cfg:        cfg,
		x:          x0,
	}
}

// Next returns the next sample, or false once the horizon is reached or the
// run failed. Err reports the failure, if any.
func (tr *Trajectory) Next() (dynamo.Sample, bool) {
	if tr.done {
		return dynamo.Sample{}, false
	}
	if !tr.started {
		tr.started = true
		return dynamo.Sample{Time: tr.t, State: tr.x}, true
	}
	if !(tr.t < tr.cfg.Duration) {
		tr.done = true
		return dynamo.Sample{}, false
	}
	// One step past MaxSteps is allowed: Validate counts ceil(Duration/Dt)
	// and accumulated time can round below Duration on the last step.
	if tr.cfg.MaxSteps > 0 && tr.steps > tr.cfg.MaxSteps {
		tr.fail(dynamo.ErrStepLimit)
		return dynamo.Sample{}, false
	}

	next := tr.integrator.Step(tr.sys, tr.x, tr.t, tr.cfg.Dt)
	if tr.cfg.ValidateState && !next.IsValid() {
		tr.fail(dynamo.ErrInvalidState)
		return dynamo.Sample{}, false
	}

	tr.t += tr.cfg.Dt
	tr.x = next
	tr.steps++

	return dynamo.Sample{Time: tr.t, State: tr.x}, true
}

// All yields the remaining samples.
func (tr *Trajectory) All() iter.Seq[dynamo.Sample] {
	return func(yield func(dynamo.Sample) bool) {
		for {
			s, ok := tr.Next()
			if !ok || !yield(s) {
				return
			}
		}
	}
}

// Steps is the number of Euler steps taken so far.
func (tr *Trajectory) Steps() int { return tr.steps }

func (tr *Trajectory) Err() error { return tr.err }

// Current is the most recently emitted state and its time.
func (tr *Trajectory) Current() dynamo.Sample {
	return dynamo.Sample{Time: tr.t, State: tr.x}
}

func (tr *Trajectory) Done() bool { return tr.done }

func (tr *Trajectory) fail(err error) {
	tr.done = true
	tr.err = &dynamo.SimulationError{Step: tr.steps, Time: tr.t, State: tr.x, Wrapped: err}
}
