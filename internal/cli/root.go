package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/courtside/internal/config"
)

// NewRootCommand builds the courtside command tree.
func NewRootCommand(opts Options) *cobra.Command {
	opts = opts.withDefaults()

	var (
		dataDir string
		current *app
	)
	get := func() *app { return current }

	root := &cobra.Command{
		Use:           "courtside",
		Short:         "Record basketball stats courtside and sync them to the cloud",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadClientConfig(opts)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			current, err = newApp(cfg, opts)
			return err
		},
	}
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the local data (default $COURTSIDE_DATA_DIR or ~/.courtside)")

	root.AddCommand(
		newPlayerCommand(get),
		newGameCommand(get),
		newRecordCommand(get),
		newStatsCommand(get),
		newSyncCommand(get),
		newConfigCommand(get),
	)
	return root
}

func loadClientConfig(opts Options) (config.ClientConfig, error) {
	if opts.Config != nil {
		return *opts.Config, nil
	}
	if err := config.LoadDotEnv(); err != nil {
		return config.ClientConfig{}, err
	}
	return config.LoadClient(), nil
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, opts Options, args []string) int {
	opts = opts.withDefaults()
	root := NewRootCommand(opts)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("error:", err)
		var usage usageError
		if errors.As(err, &usage) {
			return 2
		}
		return 1
	}
	return 0
}

// usageError marks bad command input as opposed to a failed operation.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}
