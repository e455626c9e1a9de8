package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/logkeep/internal/store"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Limit int
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print stored records",
		Long: `Print stored records, oldest first.

Text output is one tab-separated line per record:
  id, timestamp (UTC), severity, tag ("-" when empty), message

Examples:
  logkeep dump
  logkeep dump --limit 20
  logkeep dump --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "print only the newest n records (0 for all)")

	return cmd
}

func runDump(opts *DumpOptions, cmd *cobra.Command) error {
	return opts.withStore(func(st *store.Store) error {
		rows, err := st.List(commandContext(cmd), opts.Limit)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read records", err)
		}
		return opts.formatter(cmd).Records(rows)
	})
}
