// Package cli wires the reconciler's cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"rental-reconciliation/internal/compare"
	"rental-reconciliation/internal/config"
	"rental-reconciliation/internal/logging"
	"rental-reconciliation/internal/usecase"
)

// app is the state shared by every command of one root.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     zerolog.Logger
	logOutput  io.Writer
}

// NewRootCommand builds the command tree. Each call gets its own viper
// instance so tests can run commands side by side.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), logOutput: os.Stderr}

	root := &cobra.Command{
		Use:   "reconciler",
		Short: "Reconcile rentals against inbound order records",
		Long: `reconciler links rentals from the transactional store with records
extracted from inbound order correspondence, reports missing fields and
discrepancies for every match, and proposes corrective updates.

Corrections are advisory only; nothing is written back to the store.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./.reconciler.yaml or $HOME/.reconciler.yaml)")
	flags.String("db", "", "SQLite database path")
	flags.String("timezone", "", "zone used to compare calendar dates (default Local)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: auto, console, json")
	mustBind(a.v, "db_path", flags.Lookup("db"))
	mustBind(a.v, "timezone", flags.Lookup("timezone"))
	mustBind(a.v, "log_level", flags.Lookup("log-level"))
	mustBind(a.v, "log_format", flags.Lookup("log-format"))

	root.AddCommand(newRunCommand(a), newSeedCommand(a), newServeCommand(a))
	return root
}

// Execute runs the root command until completion or SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: a.logOutput})
	logging.SetDefault(a.logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), &a.logger))

	if cfg.ConfigFile != "" {
		a.logger.Debug().Str("config_file", cfg.ConfigFile).Msg("using config file")
	}
	return nil
}

func (a *app) engine() (*usecase.Engine, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	return usecase.NewEngine(compare.New(loc), usecase.WithEngineLogger(a.logger)), nil
}

// parseDay reads a YYYY-MM-DD flag in the configured zone; empty stays zero.
func (a *app) parseDay(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	day, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q, expected YYYY-MM-DD: %w", name, value, err)
	}
	return day, nil
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
	}
}
