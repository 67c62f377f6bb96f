package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/sirsim/internal/analysis"
	"github.com/san-kum/sirsim/internal/automation"
	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/export"
	"github.com/san-kum/sirsim/internal/storage"
	"github.com/san-kum/sirsim/internal/viz"
)

func (c *cli) plotCmd() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "plot [csv]",
		Short: "plot a result file in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := storage.ReadCSVFile(args[0])
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("no data to plot")
			}

			out := cmd.OutOrStdout()
			sum := analysis.Summarize(samples)
			fmt.Fprintf(out, "file: %s\n", args[0])
			fmt.Fprintf(out, "samples: %d\n\n", sum.Samples)
			fmt.Fprintln(out, viz.PlotTrajectory(samples, width, height))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "peak infected: %.6f at t=%.4f\n", sum.PeakI, sum.PeakTime)
			fmt.Fprintf(out, "final: %s\n", sum.Final)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 15, "plot height")
	return cmd
}

func (c *cli) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [csv]",
		Short: "summarize a result file and compare it with the equilibrium",
		Long: "analyze reports peak infection, compartment ranges, mass drift and the\n" +
			"dominant oscillation period of I(t). The equilibrium is computed from the\n" +
			"rates selected by --preset/--config (defaults otherwise).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := storage.ReadCSVFile(args[0])
			if err != nil {
				return err
			}
			if len(samples) < 2 {
				return fmt.Errorf("need at least two samples, got %d", len(samples))
			}
			cfg, err := c.resolveConfig(cmd, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sum := analysis.Summarize(samples)
			dt := samples[1].Time - samples[0].Time

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "samples\t%d\n", sum.Samples)
			fmt.Fprintf(w, "peak infected\t%.6f (t=%.4f)\n", sum.PeakI, sum.PeakTime)
			fmt.Fprintf(w, "S range\t[%.6f, %.6f]\n", sum.S.Min, sum.S.Max)
			fmt.Fprintf(w, "I range\t[%.6f, %.6f]\n", sum.I.Min, sum.I.Max)
			fmt.Fprintf(w, "R range\t[%.6f, %.6f]\n", sum.R.Min, sum.R.Max)
			fmt.Fprintf(w, "mass drift\t%.3g\n", sum.MassDrift)

			_, infected, _ := analysis.Series(samples)
			if period := analysis.DominantPeriod(infected, dt); period > 0 {
				fmt.Fprintf(w, "dominant period\t%.2f\n", period)
			} else {
				fmt.Fprintf(w, "dominant period\tnone\n")
			}

			eq, endemic := analysis.Equilibrium(cfg.Params, sum.Initial.Total())
			kind := "disease-free"
			if endemic {
				kind = "endemic"
			}
			fmt.Fprintf(w, "equilibrium (%s)\t%s\n", kind, eq)
			fmt.Fprintf(w, "distance to equilibrium\t%.3g\n", distance(sum.Final.State, eq))
			if err := w.Flush(); err != nil {
				return err
			}

			spectrum := analysis.PowerSpectrum(infected)
			if len(spectrum) > 1 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "spectrum "+viz.SparklineChart(spectrum[1:], 60))
			}
			return nil
		},
	}
}

func distance(a, b dynamo.State) float64 {
	d := a.Add(b.Scale(-1))
	return max(math.Abs(d.S), math.Abs(d.I), math.Abs(d.R))
}

func (c *cli) svgCmd() *cobra.Command {
	var width, height int
	var phase bool
	cmd := &cobra.Command{
		Use:   "svg [csv] [out.svg]",
		Short: "render a result file as SVG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := storage.ReadCSVFile(args[0])
			if err != nil {
				return err
			}

			svg := export.TrajectoryToSVG(samples, width, height)
			if phase {
				svg = export.PhaseToSVG(samples, width, height)
			}

			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("%w: %w", dynamo.ErrOutputUnavailable, err)
			}
			defer f.Close()

			if err := export.WriteSVG(f, svg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return f.Close()
		},
	}
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 400, "image height")
	cmd.Flags().BoolVar(&phase, "phase", false, "draw the (S, I) phase portrait instead")
	return cmd
}

func (c *cli) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBETA\tDELTA\tLAMBDA\tS0\tI0\tR0\tT_FINAL\tH")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\n",
					name,
					p.Params.Beta, p.Params.Delta, p.Params.Lambda,
					p.InitState.S, p.InitState.I, p.InitState.R,
					p.TFinal, p.H,
				)
			}
			return w.Flush()
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(c.v.GetString("data")).List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tBETA\tDELTA\tLAMBDA\tT_FINAL\tH\tSTEPS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\t%g\t%d\n",
					run.ID,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Params.Beta, run.Params.Delta, run.Params.Lambda,
					run.Duration,
					run.Dt,
					run.Steps,
				)
			}
			return w.Flush()
		},
	}
}

func (c *cli) exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(c.v.GetString("data")).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *cli) replayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay [S0 I0 R0 beta delta lambda t_final h]",
		Short: "watch a run step by step and tune its rates",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			m, err := viz.NewReplay(cfg.Params, cfg.GetInitState(), cfg.SimConfig())
			if err != nil {
				return err
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

func (c *cli) scenarioCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run every simulation listed in a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := c.loggerContext(cmd)
			if err != nil {
				return err
			}
			scenario, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			results, err := automation.RunScenario(ctx, scenario, outDir)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tOUTPUT\tSTEPS\tPEAK_I\tFINAL_I")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.6f\t%.6f\n", r.Name, r.Output, r.Steps, r.PeakInfected, r.FinalInfected)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&outDir, "dir", ".", "directory for result files")
	return cmd
}

func (c *cli) sweepCmd() *cobra.Command {
	sweep := &automation.ParameterSweep{}
	cmd := &cobra.Command{
		Use:   "sweep [S0 I0 R0 beta delta lambda t_final h]",
		Short: "repeat a run over evenly spaced values of one rate",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := c.loggerContext(cmd)
			if err != nil {
				return err
			}
			sweep.Base, err = c.resolveConfig(cmd, args)
			if err != nil {
				return err
			}

			results, err := automation.RunSweep(ctx, sweep)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tR0\tPEAK_I\tFINAL_S\tFINAL_I\tFINAL_R\n", strings.ToUpper(sweep.Param))
			for _, r := range results {
				fmt.Fprintf(w, "%.5f\t%.3f\t%.6f\t%.6f\t%.6f\t%.6f\n",
					r.Value, r.R0, r.PeakInfected, r.FinalState.S, r.FinalState.I, r.FinalState.R)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			peaks := make([]float64, len(results))
			for i, r := range results {
				peaks[i] = r.PeakInfected
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\npeak I "+viz.SparklineChart(peaks, len(peaks)))
			return nil
		},
	}
	cmd.Flags().StringVar(&sweep.Param, "param", "beta", "rate to vary (beta, delta, lambda)")
	cmd.Flags().Float64Var(&sweep.Min, "min", 0.05, "first value")
	cmd.Flags().Float64Var(&sweep.Max, "max", 0.5, "last value")
	cmd.Flags().IntVar(&sweep.Points, "points", 10, "number of values")
	return cmd
}
