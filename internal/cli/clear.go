package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored record",
		Long: `Delete every stored record. The database file and its schema are kept.

Example:
  logkeep clear --dir /var/lib/myapp/logs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(rootOpts, cmd)
		},
	}
}

func runClear(opts *RootOptions, cmd *cobra.Command) error {
	l, err := opts.openLogger()
	if err != nil {
		return err
	}
	defer func() {
		if _, termErr := l.TerminateGraceful(0); termErr != nil {
			slog.Error("error closing logger", "error", termErr)
		}
	}()

	path, err := l.Path()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve database path", err)
	}
	if err := l.Delete(commandContext(cmd)); err != nil {
		return WrapExitError(ExitFailure, "failed to clear records", err)
	}

	return opts.formatter(cmd).Action("cleared", path)
}
