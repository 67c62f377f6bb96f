// Package automation runs batches of SIRS simulations: scripted scenarios
// read from YAML and one-parameter sweeps over a rate.
package automation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/experiment"
	"github.com/san-kum/sirsim/internal/logging"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/storage"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun starts from a preset (or the defaults) and overlays settings,
// which use the run file layout.
type ScenarioRun struct {
	Name     string    `yaml:"name"`
	Preset   string    `yaml:"preset"`
	Settings yaml.Node `yaml:"settings"`
}

// Config resolves the run's full configuration.
func (r ScenarioRun) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		cfg = config.GetPreset(r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", dynamo.ErrInvalidConfig, r.Preset)
		}
	}
	if !r.Settings.IsZero() {
		data, err := yaml.Marshal(&r.Settings)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
		}
		if err := cfg.Decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("run %q: %w", r.Name, err)
		}
	}
	if r.Name != "" && cfg.Output == config.DefaultOutput {
		cfg.Output = r.Name + ".csv"
	}
	return cfg, nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("scenario %q has no runs", scenario.Name)
	}

	return &scenario, nil
}

// RunSummary describes one completed scenario run.
type RunSummary struct {
	Name          string
	Output        string
	Steps         int
	PeakInfected  float64
	FinalInfected float64
}

// RunScenario executes every run in order, writing each result file under
// outDir. Every run is validated before the first one starts.
func RunScenario(ctx context.Context, scenario *Scenario, outDir string) ([]RunSummary, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("scenario", scenario.Name)

	exps := make([]*experiment.Experiment, len(scenario.Runs))
	for i, run := range scenario.Runs {
		cfg, err := run.Config()
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		if !filepath.IsAbs(cfg.Output) {
			cfg.Output = filepath.Join(outDir, cfg.Output)
		}
		exps[i], err = experiment.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
	}

	results := make([]RunSummary, 0, len(exps))
	for i, exp := range exps {
		name := scenario.Runs[i].Name
		logger.V(logging.DEBUG).Info("starting run", "index", i+1, "of", len(exps), "name", name)

		summary, err := execute(ctx, exp)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}
		summary.Name = name
		results = append(results, summary)
	}

	return results, nil
}

func execute(ctx context.Context, exp *experiment.Experiment) (RunSummary, error) {
	path := exp.Config().Output
	out, err := storage.CreateOutput(path)
	if err != nil {
		return RunSummary{}, err
	}
	defer out.Close()

	result, err := exp.Execute(ctx, out)
	if err != nil {
		return RunSummary{}, err
	}
	if err := out.Close(); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		Output:        path,
		Steps:         result.StepsTaken,
		PeakInfected:  result.Metrics["peak_infected"],
		FinalInfected: result.Metrics["final_infected"],
	}, nil
}

// ParameterSweep runs Base once per evenly spaced value of one rate.
type ParameterSweep struct {
	Base   *config.Config
	Param  string
	Min    float64
	Max    float64
	Points int
}

type SweepResult struct {
	Value         float64
	R0            float64
	PeakInfected  float64
	FinalInfected float64
	FinalState    dynamo.State
	Steps         int
}

// lastSample keeps the most recent sample of a run.
type lastSample struct{ dynamo.Sample }

func (l *lastSample) OnSample(s dynamo.Sample) { l.Sample = s }

// Values returns the swept parameter values.
func (s *ParameterSweep) Values() ([]float64, error) {
	if s.Points < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 points, got %d", dynamo.ErrInvalidConfig, s.Points)
	}
	if s.Max < s.Min {
		return nil, fmt.Errorf("%w: sweep range [%g, %g] is empty", dynamo.ErrInvalidConfig, s.Min, s.Max)
	}

	step := (s.Max - s.Min) / float64(s.Points-1)
	values := make([]float64, s.Points)
	for i := range values {
		values[i] = s.Min + float64(i)*step
	}
	values[len(values)-1] = s.Max
	return values, nil
}

// RunSweep executes the sweep sequentially. Results are not written to disk.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	values, err := sweep.Values()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(dynamo.ParamNames(models.NewSIRS(sweep.Base.Params)), sweep.Param) {
		return nil, fmt.Errorf("%w: unknown parameter %q", dynamo.ErrInvalidConfig, sweep.Param)
	}
	logger := logr.FromContextOrDiscard(ctx).WithValues("param", sweep.Param)

	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		sys := models.NewSIRS(sweep.Base.Params)
		if err := sys.SetParam(sweep.Param, v); err != nil {
			return results, err
		}

		cfg := *sweep.Base
		cfg.Params = sys.Params()
		exp, err := experiment.New(&cfg)
		if err != nil {
			return results, err
		}

		var last lastSample
		exp.Simulator().AddObserver(&last)

		result, err := exp.Execute(ctx, io.Discard)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			Value:         v,
			R0:            cfg.Params.BasicReproductionNumber(),
			PeakInfected:  result.Metrics["peak_infected"],
			FinalInfected: result.Metrics["final_infected"],
			FinalState:    last.State,
			Steps:         result.StepsTaken,
		})
		logger.V(logging.DEBUG).Info("sweep point done", "index", i+1, "of", len(values), "value", v)
	}

	return results, nil
}
