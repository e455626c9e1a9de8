package record

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity is an ordered log level.
//
// Numeric values match the Android log priorities so thresholds can be
// exchanged numerically with hosts that already use them.
type Severity int

const (
	Verbose Severity = iota + 2
	Debug
	Info
	Warn
	Error
	Assert
)

// Labels of the known severities plus the catch-all.
const (
	LabelVerbose = "VERBOSE"
	LabelDebug   = "DEBUG"
	LabelInfo    = "INFO"
	LabelWarn    = "WARN"
	LabelError   = "ERROR"
	LabelAssert  = "ASSERT"
	LabelUnknown = "UNKNOWN"
)

// Label returns the canonical label of s.
// Values outside the known range map to LabelUnknown.
func (s Severity) Label() string {
	switch s {
	case Verbose:
		return LabelVerbose
	case Debug:
		return LabelDebug
	case Info:
		return LabelInfo
	case Warn:
		return LabelWarn
	case Error:
		return LabelError
	case Assert:
		return LabelAssert
	default:
		return LabelUnknown
	}
}

// String implements fmt.Stringer.
func (s Severity) String() string {
	return s.Label()
}

var upper = cases.Upper(language.Und)

// ParseSeverity parses a severity label, ignoring case and surrounding space.
// UNKNOWN is not accepted since it names no threshold.
func ParseSeverity(label string) (Severity, error) {
	switch upper.String(strings.TrimSpace(label)) {
	case LabelVerbose:
		return Verbose, nil
	case LabelDebug:
		return Debug, nil
	case LabelInfo:
		return Info, nil
	case LabelWarn, "WARNING":
		return Warn, nil
	case LabelError:
		return Error, nil
	case LabelAssert:
		return Assert, nil
	default:
		return 0, fmt.Errorf("invalid severity %q", label)
	}
}
