package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fedqlab/fedq/internal/config"
	"github.com/fedqlab/fedq/internal/party"
	"github.com/fedqlab/fedq/internal/relay"
	"github.com/fedqlab/fedq/internal/source"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	ConfigDir string
	Database  string
}

// NewSimulateCommand creates the simulate command: run every party of a
// config directory in one process, sharing one in-process relay.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run all parties of a config directory concurrently",
		Long: `Load every *.yaml config in a directory and run all parties concurrently
against a shared in-process relay. Exactly one config must declare the
coordinator role.

Example:
  fedq simulate --config-dir ./configs
  fedq simulate --config-dir ./configs --db ./runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigDir, "config-dir", "", "directory of party configs (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to run log database (optional)")
	_ = cmd.MarkFlagRequired("config-dir")

	return cmd
}

func runSimulate(cmd *cobra.Command, opts *SimulateOptions) error {
	configs, err := loadConfigDir(opts.ConfigDir)
	if err != nil {
		return err
	}

	runnerOpts, closeLog, err := runLogOption(opts.Database)
	if err != nil {
		return err
	}
	defer closeLog()

	rl := relay.New()
	runners := make([]*party.Runner, 0, len(configs))
	for _, cfg := range configs {
		runner, err := party.NewRunner(cfg, source.NewDirFetcher(cfg.DataDir), rl, runnerOpts...)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to build runner for %s", cfg.Client), err)
		}
		runners = append(runners, runner)
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	// One goroutine per party; parties only meet at the relay.
	g, gctx := errgroup.WithContext(ctx)
	for _, runner := range runners {
		runner := runner
		g.Go(func() error {
			_, err := runner.Run(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return WrapExitError(ExitFailure, "simulation failed", err)
	}
	return nil
}

// loadConfigDir loads every *.yaml config in dir (lexical order) and
// checks the topology: at least two parties are pointless to simulate but
// legal; more than one coordinator is not.
func loadConfigDir(dir string) ([]*config.Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read config directory", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("no config files found in %s", dir))
	}

	var configs []*config.Config
	coordinators := 0
	for _, name := range names {
		cfg, err := config.Load(filepath.Join(dir, name))
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", name), err)
		}
		if cfg.Role == config.RoleCoordinator {
			coordinators++
		}
		configs = append(configs, cfg)
	}
	if coordinators != 1 {
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("topology needs exactly one coordinator, found %d", coordinators))
	}
	return configs, nil
}
