package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/logging"
)

// cli holds flag state shared by every command. Persistent settings are read
// through viper so SIRSIM_* environment variables can supply them.
type cli struct {
	v    *viper.Viper
	out  string
	save bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "sirsim [S0 I0 R0 beta delta lambda t_final h]",
		Short: "SIRS epidemic model integrated with a fixed-step Euler method",
		Long: "sirsim integrates the SIRS compartmental model from t=0 to t_final and writes\n" +
			"one CSV row per step. Pass no arguments for the built-in defaults or all eight\n" +
			"values in order. Use -- before negative numbers.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runSimulation,
	}
	rootCmd.SetFlagErrorFunc(numericFlagError)

	pf := rootCmd.PersistentFlags()
	pf.String("data", ".sirsim", "run store directory")
	pf.String("log-level", "info", "log level (error, info, debug, trace)")
	pf.Bool("quiet", false, "suppress banner and completion line")
	pf.String("config", "", "run file path (yaml)")
	pf.String("preset", "", "start from a named preset")

	c.v.SetEnvPrefix("SIRSIM")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	if err := c.v.BindPFlags(pf); err != nil {
		panic(err)
	}

	rootCmd.Flags().StringVarP(&c.out, "out", "o", config.DefaultOutput, "result file, - for stdout")
	rootCmd.Flags().BoolVar(&c.save, "save", false, "also store the run under --data")

	rootCmd.AddCommand(
		c.plotCmd(),
		c.analyzeCmd(),
		c.svgCmd(),
		c.presetsCmd(),
		c.listCmd(),
		c.exportJSONCmd(),
		c.replayCmd(),
		c.scenarioCmd(),
		c.sweepCmd(),
	)

	return rootCmd
}

// numericFlagError turns pflag's complaint about a negative positional
// number, which it reads as a shorthand flag, into a configuration error.
func numericFlagError(_ *cobra.Command, err error) error {
	var notExist *pflag.NotExistError
	if !errors.As(err, &notExist) {
		return err
	}
	tok := notExist.GetSpecifiedShortnames()
	if tok == "" {
		return err
	}
	if _, perr := strconv.ParseFloat("-"+tok, 64); perr != nil {
		return err
	}
	return fmt.Errorf("%w: negative value -%s must follow -- (sirsim -- S0 I0 R0 ...)", dynamo.ErrInvalidConfig, tok)
}

// loggerContext returns the command context carrying the configured logger.
func (c *cli) loggerContext(cmd *cobra.Command) (context.Context, error) {
	logger, err := logging.NewLogger(c.v.GetString("log-level"), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return logr.NewContext(cmd.Context(), logger), nil
}

// resolveConfig layers defaults, preset, run file, positional arguments and
// --out, in that order.
func (c *cli) resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if name := c.v.GetString("preset"); name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q (available: %v)", dynamo.ErrInvalidConfig, name, config.ListPresets())
		}
	}

	if path := c.v.GetString("config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := cfg.ApplyArgs(args); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("out") {
		cfg.Output = c.out
	}
	return cfg, nil
}
