package main

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/san-kum/sirsim/internal/experiment"
	"github.com/san-kum/sirsim/internal/storage"
	"github.com/san-kum/sirsim/internal/viz"
)

func (c *cli) runSimulation(cmd *cobra.Command, args []string) error {
	ctx, err := c.loggerContext(cmd)
	if err != nil {
		return err
	}

	cfg, err := c.resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	var opts []experiment.Option
	if c.save {
		opts = append(opts, experiment.WithSamples())
	}
	exp, err := experiment.New(cfg, opts...)
	if err != nil {
		return err
	}

	out, err := storage.CreateOutput(cfg.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	// Keep the banner off stdout when the results go there.
	info := cmd.OutOrStdout()
	if cfg.Output == storage.StdoutPath {
		info = cmd.ErrOrStderr()
	}
	if c.v.GetBool("quiet") {
		info = io.Discard
	}

	fmt.Fprintln(info, viz.Banner(exp.Params(), exp.InitState(), exp.SimConfig(), cfg.Output))

	result, err := exp.Execute(ctx, out)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", cfg.Output, err)
	}

	fmt.Fprintln(info, viz.Completion(result.StepsTaken, cfg.Output))

	if c.save {
		st := storage.New(c.v.GetString("data"))
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Params(), exp.SimConfig(), result)
		if err != nil {
			return err
		}
		logr.FromContextOrDiscard(ctx).Info("run stored", "id", runID, "dir", c.v.GetString("data"))
		fmt.Fprintf(info, "run id: %s\n", runID)
	}

	return nil
}
