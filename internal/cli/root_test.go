package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "logkeep", cmd.Use)
	assert.Contains(t, cmd.Long, "capacity")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"write", "dump", "count", "clear", "path", "export"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	capacityFlag := cmd.PersistentFlags().Lookup("capacity")
	require.NotNil(t, capacityFlag)
	// negative means "not set on the command line"
	assert.Equal(t, "-1", capacityFlag.DefValue)

	for _, name := range []string{"dir", "name", "min-severity"} {
		fl := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, fl, name)
		assert.Equal(t, "", fl.DefValue, name)
	}
}

func TestWriteCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	writeCmd, _, err := cmd.Find([]string{"write"})
	require.NoError(t, err)

	severityFlag := writeCmd.Flags().Lookup("severity")
	require.NotNil(t, severityFlag)
	assert.Equal(t, "s", severityFlag.Shorthand)
	assert.Equal(t, "info", severityFlag.DefValue)

	tagFlag := writeCmd.Flags().Lookup("tag")
	require.NotNil(t, tagFlag)
	assert.Equal(t, "t", tagFlag.Shorthand)

	timeoutFlag := writeCmd.Flags().Lookup("timeout")
	require.NotNil(t, timeoutFlag)
	assert.Equal(t, "5s", timeoutFlag.DefValue)
}

func TestDumpCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	dumpCmd, _, err := cmd.Find([]string{"dump"})
	require.NoError(t, err)

	limitFlag := dumpCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "n", limitFlag.Shorthand)
	assert.Equal(t, "0", limitFlag.DefValue)
}

func TestCommandHelp(t *testing.T) {
	cmd := NewRootCommand()

	assert.Contains(t, cmd.Short, "logkeep")
	assert.Contains(t, cmd.Long, "flags win")
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Execute(context.Background(), []string{"--format", "invalid", "count", "--dir", t.TempDir()}, stdout, stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "invalid format")
	assert.Empty(t, stdout.String())
}
