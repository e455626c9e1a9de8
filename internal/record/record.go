package record

// Record is a single log event ready to be persisted.
// Records are values; nothing mutates them after New.
type Record struct {
	Severity        string
	Tag             string
	Message         string
	TimestampMillis int64
}

// New builds a Record from a log call.
//
// The message is assumed non-empty. An empty tag is stored as the empty
// string, never as NULL.
func New(severity Severity, tag, message string, timestampMillis int64) Record {
	return Record{
		Severity:        severity.Label(),
		Tag:             tag,
		Message:         message,
		TimestampMillis: timestampMillis,
	}
}
