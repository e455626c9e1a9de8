package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/logkeep"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"command error", NewExitError(ExitCommandError, "invalid --severity"), ExitCommandError},
		{"failure", WrapExitError(ExitFailure, "3 of 5 writes failed", assert.AnError), ExitFailure},
		{"wrapped twice", fmt.Errorf("write: %w", NewExitError(ExitCommandError, "refusing to overwrite")), ExitCommandError},
		{"plain error", assert.AnError, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_KeepsCause(t *testing.T) {
	err := WrapExitError(ExitCommandError, "failed to open database", logkeep.ErrTerminated)

	assert.ErrorIs(t, err, logkeep.ErrTerminated)
	assert.Equal(t, "failed to open database: logger has been terminated", err.Error())
	assert.Equal(t, "timed out", NewExitError(ExitFailure, "timed out").Error())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "E000", errorCode(ExitSuccess))
	assert.Equal(t, "E001", errorCode(ExitFailure))
	assert.Equal(t, "E002", errorCode(ExitCommandError))
}
