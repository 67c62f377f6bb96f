// Package experiment wires a validated run configuration to the SIRS model,
// the Euler stepper and the default metrics.
package experiment

import (
	"context"
	"io"
	"math"

	"github.com/go-logr/logr"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/integrators"
	"github.com/san-kum/sirsim/internal/metrics"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/sim"
	"github.com/san-kum/sirsim/internal/storage"
)

type Experiment struct {
	cfg         config.Config
	simulator   *sim.Simulator
	metrics     []dynamo.Metric
	keepSamples bool
}

type Option func(*Experiment)

// WithSamples keeps every sample in the returned Result.
func WithSamples() Option {
	return func(e *Experiment) { e.keepSamples = true }
}

// New validates cfg and builds the simulator. Nothing is written until
// Execute is called.
func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:       *cfg,
		simulator: sim.New(models.NewSIRS(cfg.Params), integrators.NewEuler()),
		metrics:   metrics.Default(),
	}
	for _, m := range e.metrics {
		e.simulator.AddMetric(m)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Experiment) Config() config.Config { return e.cfg }

func (e *Experiment) Params() models.Params { return e.cfg.Params }

func (e *Experiment) InitState() dynamo.State { return e.cfg.GetInitState() }

func (e *Experiment) SimConfig() dynamo.Config { return e.cfg.SimConfig() }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// Execute streams the trajectory to w as CSV and returns the step count
// and metric values. The writer is flushed even when the run stops early
// so every emitted row reaches w.
func (e *Experiment) Execute(ctx context.Context, w io.Writer) (*dynamo.Result, error) {
	x0 := e.InitState()
	cw := storage.NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return nil, err
	}

	result := &dynamo.Result{Metrics: make(map[string]float64)}
	var last dynamo.Sample
	steps, runErr := e.simulator.Stream(ctx, x0, e.SimConfig(), func(s dynamo.Sample) error {
		last = s
		if e.keepSamples {
			result.Samples = append(result.Samples, s)
		}
		return cw.Write(s)
	})
	result.StepsTaken = steps

	if err := cw.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return result, runErr
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.MassDrift = math.Abs(last.Total() - x0.Total())

	logr.FromContextOrDiscard(ctx).Info("run complete", "steps", steps, "rows", cw.Rows())
	return result, nil
}

// Run buffers the whole trajectory without writing it anywhere.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	return e.simulator.Run(ctx, e.InitState(), e.SimConfig())
}
