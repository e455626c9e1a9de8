package logkeep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
directory: /tmp/logs
name: app.db
capacity: 0
min_severity: debug
debug: true
destructive_migration: true
`))
	require.NoError(t, err)

	require.NotNil(t, cfg.Capacity)
	assert.Equal(t, Config{
		Directory:            "/tmp/logs",
		Name:                 "app.db",
		Capacity:             cfg.Capacity,
		MinSeverity:          "debug",
		Debug:                true,
		DestructiveMigration: true,
	}, cfg)
	assert.Equal(t, 0, *cfg.Capacity)
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestParseConfig_UnknownField(t *testing.T) {
	_, err := ParseConfig([]byte("size: 10\n"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logkeep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 25\nmin_severity: WARN\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Capacity)
	assert.Equal(t, 25, *cfg.Capacity)
	assert.Equal(t, "WARN", cfg.MinSeverity)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Options(t *testing.T) {
	capacity := 7
	dir := t.TempDir()
	cfg := Config{
		Directory:   dir,
		Name:        "x.db",
		Capacity:    &capacity,
		MinSeverity: "error",
	}

	opts, err := cfg.Options()
	require.NoError(t, err)

	l, err := New(opts...)
	require.NoError(t, err)
	assert.Equal(t, "x.db", l.Name())
	assert.Equal(t, 7, l.Capacity())
	assert.Equal(t, SeverityError, l.MinSeverity())
}

func TestConfig_OptionsInvalid(t *testing.T) {
	negative := -3
	_, err := Config{Capacity: &negative}.Options()
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = Config{MinSeverity: "loud"}.Options()
	assert.Error(t, err)
}
