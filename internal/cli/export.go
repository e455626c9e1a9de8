package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/logkeep/internal/store"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dest>",
		Short: "Write a consistent copy of the database",
		Long: `Write a consistent copy of the database to dest. The copy is a
standalone SQLite file; dest must not exist.

Example:
  logkeep export ./support-bundle/log.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := args[0]
			return rootOpts.withStore(func(st *store.Store) error {
				if err := st.Export(commandContext(cmd), dest); err != nil {
					if errors.Is(err, store.ErrExportExists) {
						return WrapExitError(ExitCommandError, "refusing to overwrite", err)
					}
					return WrapExitError(ExitFailure, "export failed", err)
				}

				return rootOpts.formatter(cmd).Action("exported", dest)
			})
		},
	}
}
