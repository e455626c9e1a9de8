package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/logkeep"
	"github.com/roach88/logkeep/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	Config      string // optional YAML config file
	Dir         string
	Name        string
	Capacity    int // negative means unset
	MinSeverity string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the logkeep CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "logkeep",
		Short: "logkeep - bounded persistent log store",
		Long: `Inspect and write to a logkeep database.

A logkeep database keeps the most recent records up to a fixed capacity.
Settings come from --config, then from flags; flags win.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			configureLogging(cmd, opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", "", "database directory (default: user cache dir)")
	cmd.PersistentFlags().StringVar(&opts.Name, "name", "", "database file name (default \"log.db\")")
	cmd.PersistentFlags().IntVar(&opts.Capacity, "capacity", -1, "maximum retained records (default 500)")
	cmd.PersistentFlags().StringVar(&opts.MinSeverity, "min-severity", "", "lowest severity stored (default INFO)")

	cmd.AddCommand(NewWriteCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewPathCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
// Errors go to stderr, or to stdout as a JSON error response when
// --format json is in effect.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	f := &OutputFormatter{Format: "text", Writer: stderr}
	if fl := cmd.PersistentFlags().Lookup("format"); fl != nil && fl.Value.String() == "json" {
		f = &OutputFormatter{Format: "json", Writer: stdout}
	}
	_ = f.Error(errorCode(code), err.Error(), nil)
	return code
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging installs a text handler on stderr as the default logger.
func configureLogging(cmd *cobra.Command, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// loggerOptions merges the config file and the global flags into Logger
// options. Later options override earlier ones, so flags are applied last.
func (o *RootOptions) loggerOptions(extra ...logkeep.Option) ([]logkeep.Option, error) {
	var opts []logkeep.Option

	if o.Config != "" {
		cfg, err := logkeep.LoadConfig(o.Config)
		if err != nil {
			return nil, err
		}
		fileOpts, err := cfg.Options()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.Config, err)
		}
		opts = append(opts, fileOpts...)
	}

	if o.Dir != "" {
		opts = append(opts, logkeep.WithDirectory(o.Dir))
	}
	if o.Name != "" {
		opts = append(opts, logkeep.WithName(o.Name))
	}
	if o.Capacity >= 0 {
		opts = append(opts, logkeep.WithCapacity(o.Capacity))
	}
	if o.MinSeverity != "" {
		s, err := logkeep.ParseSeverity(o.MinSeverity)
		if err != nil {
			return nil, fmt.Errorf("--min-severity: %w", err)
		}
		opts = append(opts, logkeep.WithMinSeverity(s))
	}
	if o.Verbose {
		opts = append(opts, logkeep.WithDebug(true), logkeep.WithSlog(slog.Default()))
	}

	return append(opts, extra...), nil
}

// openLogger builds and initializes a Logger from the global settings.
// The caller must terminate it.
func (o *RootOptions) openLogger(extra ...logkeep.Option) (*logkeep.Logger, error) {
	opts, err := o.loggerOptions(extra...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	l, err := logkeep.New(opts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if err := l.Initialize(); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return l, nil
}

// withStore opens the configured database for reading and calls fn with
// a second connection to it. Reads bypass the write worker.
func (o *RootOptions) withStore(fn func(st *store.Store) error) error {
	l, err := o.openLogger()
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

	slog.Debug("opening database", "path", path)
	st, err := store.Open(path, store.WithLogger(slog.Default()))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	return fn(st)
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
