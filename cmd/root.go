package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/mlbsim/internal/config"
	"github.com/okian/mlbsim/pkg/logger"
	"github.com/okian/mlbsim/pkg/metrics"
)

var version = "dev"

// runtimeEnv carries what the persistent flags resolve to.
type runtimeEnv struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	env := &runtimeEnv{}
	cmd := &cobra.Command{
		Use:   "mlbsim",
		Short: "mlbsim - MLB roster ranking and trade simulator",
		Long: `mlbsim ranks MLB clubs per league by a blended z-score of one hitting and
one pitching metric, and re-ranks them after hypothetical trades without
touching the shared season data.

Run "mlbsim serve" for the HTTP API or use the one-shot commands below.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: env.setup,
	}

	cmd.PersistentFlags().StringVar(&env.configPath, "config", "", "YAML config file (overrides "+config.EnvConfigFile+")")
	cmd.PersistentFlags().StringVar(&env.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newServeCommand(env))
	cmd.AddCommand(newRankCommand(env))
	cmd.AddCommand(newSimulateCommand(env))
	cmd.AddCommand(newMatchupCommand(env))
	cmd.AddCommand(newProjectCommand(env))
	cmd.AddCommand(newCacheCommand(env))

	return cmd
}

// setup initialises logging and loads the configuration. The server logs to
// stdout; one-shot commands keep stdout for their output and log to stderr.
func (e *runtimeEnv) setup(cmd *cobra.Command, _ []string) error {
	var w io.Writer = cmd.ErrOrStderr()
	if cmd.Name() == "serve" {
		w = cmd.OutOrStdout()
	}
	if err := logger.InitWithWriter(w); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if e.configPath != "" {
		if err := os.Setenv(config.EnvConfigFile, e.configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if e.logLevel != "" {
		level = e.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.SetEnabled(cfg.MetricsEnabled)
	metrics.SetRefreshInterval(cfg.MetricsRefresh())

	e.cfg = cfg
	return nil
}
