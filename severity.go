package logkeep

import "github.com/roach88/logkeep/internal/record"

// Severity is an ordered log level. VERBOSE < DEBUG < INFO < WARN < ERROR < ASSERT.
type Severity = record.Severity

const (
	SeverityVerbose = record.Verbose
	SeverityDebug   = record.Debug
	SeverityInfo    = record.Info
	SeverityWarn    = record.Warn
	SeverityError   = record.Error
	SeverityAssert  = record.Assert
)

// ParseSeverity parses a severity label such as "info" or "WARN".
func ParseSeverity(label string) (Severity, error) {
	return record.ParseSeverity(label)
}
