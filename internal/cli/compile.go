package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fedqlab/fedq/internal/config"
	"github.com/fedqlab/fedq/internal/query"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Config string
}

// NewCompileCommand creates the compile command: load a config and print
// the compiled query string without running anything.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a config's query and print the query string",
		Long: `Load a party configuration, validate its query specification, and print
the compiled query string.

Example:
  fedq compile --config ./configs/alice.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to party config (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runCompile(cmd *cobra.Command, opts *CompileOptions) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), query.Compile(cfg.Query))
	return nil
}
