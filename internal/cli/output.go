package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/roach88/logkeep/internal/store"
)

// timestampLayout renders created_at in text record output.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// OutputFormatter renders command results either as text for people or
// as a CLIResponse envelope when Format is "json".
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose notes; Writer when nil
	Verbose   bool
}

// CLIResponse is the JSON envelope written for every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // errorCode of the exit code
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// CountResult is the JSON payload of the count command.
type CountResult struct {
	Count int `json:"count"`
}

// PathResult is the JSON payload of the path command.
type PathResult struct {
	Path string `json:"path"`
}

func (f *OutputFormatter) isJSON() bool {
	return f.Format == "json"
}

func (f *OutputFormatter) envelope(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Success writes data as an "ok" envelope, or prints it on one line.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return f.envelope(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes an "error" envelope, or "Error [code]: message" with the
// details appended in verbose mode.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return f.envelope(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	if _, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if f.Verbose && details != nil {
		_, err := fmt.Fprintf(f.Writer, "Details: %v\n", details)
		return err
	}
	return nil
}

// Records writes stored rows oldest first. Text output is one
// tab-separated line per row: id, UTC timestamp, severity, tag ("-" when
// empty), message. JSON output is the rows as the envelope's data.
func (f *OutputFormatter) Records(rows []store.Row) error {
	if f.isJSON() {
		return f.Success(rows)
	}
	f.VerboseLog("%d records", len(rows))
	for _, r := range rows {
		tag := r.Tag
		if tag == "" {
			tag = "-"
		}
		ts := time.UnixMilli(r.CreatedAt).UTC().Format(timestampLayout)
		if _, err := fmt.Fprintf(f.Writer, "%d\t%s\t%s\t%s\t%s\n", r.ID, ts, r.Severity, tag, r.Message); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary reports the outcome of a write command.
func (f *OutputFormatter) WriteSummary(r WriteResult) error {
	if f.isJSON() {
		return f.Success(r)
	}
	f.VerboseLog("database: %s", r.Path)
	if !r.Drained {
		f.VerboseLog("shutdown timed out with writes still queued")
	}
	return f.Success(fmt.Sprintf("wrote %d records (%d failed)", r.Written, r.Failed))
}

// Count reports a record count.
func (f *OutputFormatter) Count(n int) error {
	if f.isJSON() {
		return f.Success(CountResult{Count: n})
	}
	return f.Success(n)
}

// Path reports the database path.
func (f *OutputFormatter) Path(path string) error {
	if f.isJSON() {
		return f.Success(PathResult{Path: path})
	}
	return f.Success(path)
}

// Action reports a completed operation on target, e.g. "cleared <path>".
// JSON output is {"<verb>": "<target>"}.
func (f *OutputFormatter) Action(verb, target string) error {
	if f.isJSON() {
		return f.Success(map[string]string{verb: target})
	}
	return f.Success(verb + " " + target)
}

// VerboseLog writes a note to ErrWriter (or Writer) in verbose mode only.
// Notes never go into a JSON stream on Writer when ErrWriter is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
