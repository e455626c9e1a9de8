package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// NewPathCommand creates the path command.
func NewPathCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the canonical path of the database file",
		Long: `Print the canonical path of the database file, creating the
directory and database if they do not exist yet.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := rootOpts.openLogger()
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

			return rootOpts.formatter(cmd).Path(path)
		},
	}
}
