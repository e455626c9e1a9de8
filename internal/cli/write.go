package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/logkeep"
)

// WriteOptions holds flags for the write command.
type WriteOptions struct {
	*RootOptions
	Severity string
	Tag      string
	Timeout  time.Duration
}

// WriteResult summarizes a write command run.
type WriteResult struct {
	Path     string `json:"path"`
	Accepted int    `json:"accepted"`
	Written  int64  `json:"written"`
	Failed   int64  `json:"failed"`
	Drained  bool   `json:"drained"`
}

// NewWriteCommand creates the write command.
func NewWriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "write [message...]",
		Short: "Append records to the log",
		Long: `Append records to the log through the background writer.

Each argument becomes one record. With no arguments, each non-empty
line of standard input becomes one record. Records below the minimum
severity are skipped.

Examples:
  logkeep write --tag app "service started"
  logkeep write --severity warn --tag net "connection reset"
  dmesg | logkeep write --severity debug --tag kernel`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Severity, "severity", "s", "info", "record severity (verbose|debug|info|warn|error|assert)")
	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", "", "record tag")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 5*time.Second, "how long to wait for queued writes on exit")

	return cmd
}

func runWrite(opts *WriteOptions, args []string, cmd *cobra.Command) error {
	severity, err := logkeep.ParseSeverity(opts.Severity)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --severity", err)
	}

	messages := args
	if len(messages) == 0 {
		messages, err = readLines(cmd)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read stdin", err)
		}
	}

	var written, failed atomic.Int64
	l, err := opts.openLogger(logkeep.WithCallbacks(
		func() { written.Add(1) },
		func(err error) {
			failed.Add(1)
			slog.Warn("write failed", "error", err)
		},
	))
	if err != nil {
		return err
	}

	path, err := l.Path()
	if err != nil {
		_ = l.TerminateImmediate()
		return WrapExitError(ExitCommandError, "failed to resolve database path", err)
	}

	accepted := 0
	for _, msg := range messages {
		if err := l.Log(severity, opts.Tag, msg); err != nil {
			_ = l.TerminateImmediate()
			return WrapExitError(ExitFailure, "log failed", err)
		}
		accepted++
	}

	drained, err := l.TerminateGraceful(opts.Timeout)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to close database", err)
	}

	result := WriteResult{
		Path:     path,
		Accepted: accepted,
		Written:  written.Load(),
		Failed:   failed.Load(),
		Drained:  drained,
	}
	if err := opts.formatter(cmd).WriteSummary(result); err != nil {
		return err
	}

	if !drained {
		return NewExitError(ExitFailure, fmt.Sprintf("timed out after %s with writes still queued", opts.Timeout))
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d writes failed", result.Failed, accepted))
	}
	return nil
}

// readLines returns the non-empty lines of the command's stdin.
func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
