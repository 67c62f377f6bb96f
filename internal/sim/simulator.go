package sim

import (
	"context"
	"math"

	"github.com/go-logr/logr"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/logging"
)

const maxPrealloc = 1 << 20

type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(sys dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Trajectory validates cfg and returns an unstarted sample sequence.
// Metrics and observers are not fed by a bare Trajectory.
func (s *Simulator) Trajectory(x0 dynamo.State, cfg dynamo.Config) (*Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newTrajectory(s.sys, s.integrator, x0, cfg), nil
}

// Stream runs to the horizon, handing each sample to fn in step order. It
// returns the number of steps taken. A non-nil error from fn stops the run.
func (s *Simulator) Stream(ctx context.Context, x0 dynamo.State, cfg dynamo.Config, fn func(dynamo.Sample) error) (int, error) {
	tr, err := s.Trajectory(x0, cfg)
	if err != nil {
		return 0, err
	}

	logger := logr.FromContextOrDiscard(ctx)
	logger.V(logging.DEBUG).Info("simulation started",
		"dt", cfg.Dt, "duration", cfg.Duration, "estimatedSteps", cfg.EstimatedSteps())

	for _, m := range s.metrics {
		m.Reset()
	}

	for {
		select {
		case <-ctx.Done():
			return tr.Steps(), &dynamo.SimulationError{Step: tr.Steps(), Time: tr.Current().Time, State: tr.Current().State, Wrapped: dynamo.ErrCanceled}
		default:
		}

		sample, ok := tr.Next()
		if !ok {
			break
		}

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnSample(sample)
		}

		if err := fn(sample); err != nil {
			return tr.Steps(), err
		}
	}

	if err := tr.Err(); err != nil {
		logger.Error(err, "simulation stopped early", "steps", tr.Steps())
		return tr.Steps(), err
	}

	logger.V(logging.DEBUG).Info("simulation finished", "steps", tr.Steps(), "final", tr.Current().String())
	return tr.Steps(), nil
}

// Run buffers the whole trajectory and collects metric values.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	capacity := cfg.EstimatedSteps() + 2
	if capacity > maxPrealloc {
		capacity = maxPrealloc
	}
	result := &dynamo.Result{
		Samples: make([]dynamo.Sample, 0, capacity),
		Metrics: make(map[string]float64),
	}

	steps, err := s.Stream(ctx, x0, cfg, func(sample dynamo.Sample) error {
		result.Samples = append(result.Samples, sample)
		return nil
	})
	result.StepsTaken = steps
	if err != nil {
		return result, err
	}

	result.MassDrift = math.Abs(result.Final().Total() - x0.Total())

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
