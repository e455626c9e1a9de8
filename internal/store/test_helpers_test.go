package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/logkeep/internal/record"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates an INFO record with a numbered message.
func createTestRecord(n int) record.Record {
	return record.New(record.Info, "test", fmt.Sprintf("message %d", n), int64(1000+n))
}

// messages extracts the message column in row order.
func messages(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Message
	}
	return out
}
