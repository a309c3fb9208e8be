package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fedqlab/fedq/internal/config"
	"github.com/fedqlab/fedq/internal/party"
	"github.com/fedqlab/fedq/internal/relay"
	"github.com/fedqlab/fedq/internal/source"
	"github.com/fedqlab/fedq/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config   string
	Database string
}

// NewRunCommand creates the run command: execute a single party's run.
//
// A single-party run binds a private relay, so it only completes for a
// coordinator whose roster is itself. Multi-party topologies in one
// process use the simulate command; a distributed deployment swaps the
// relay for a network transport.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one party's state machine",
		Long: `Run a single party through the federated query state machine using the
given configuration.

Example:
  fedq run --config ./configs/alice.yaml
  fedq run --config ./configs/alice.yaml --db ./runs.db --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParty(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to party config (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to run log database (optional)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runParty(cmd *cobra.Command, opts *RunOptions) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	runnerOpts, closeLog, err := runLogOption(opts.Database)
	if err != nil {
		return err
	}
	defer closeLog()

	runner, err := party.NewRunner(cfg, source.NewDirFetcher(cfg.DataDir), relay.New(), runnerOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build runner", err)
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if _, err := runner.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "run failed", err)
	}
	return nil
}

// runLogOption opens the run log when a database path was given.
func runLogOption(path string) ([]party.RunnerOption, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}

	log, err := store.Open(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open run log", err)
	}
	closeLog := func() {
		if err := log.Close(); err != nil {
			slog.Error("error closing run log", "error", err)
		}
	}
	return []party.RunnerOption{party.WithRunLog(log)}, closeLog, nil
}

// signalContext derives a context cancelled by SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
