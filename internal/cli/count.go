package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/logkeep/internal/store"
)

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "count",
		Short:         "Print the number of stored records",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withStore(func(st *store.Store) error {
				n, err := st.Count(commandContext(cmd))
				if err != nil {
					return WrapExitError(ExitFailure, "failed to count records", err)
				}
				return rootOpts.formatter(cmd).Count(n)
			})
		},
	}
}
