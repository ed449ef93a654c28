package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eternalApril/respdump/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := config.Load(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, "-", cfg.Input.Path)
	assert.Equal(t, 4096, cfg.Input.BufferSize)
	assert.Equal(t, 0, cfg.Dump.Limit)
	assert.Equal(t, "text", cfg.Dump.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
input:
  path: appendonly.aof
  buffer_size: 65536
dump:
  limit: 10
log:
  level: debug
  format: json
`)
	t.Setenv("RESPDUMP_DUMP_FORMAT", "log")

	cfg, err := config.Load(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "appendonly.aof", cfg.Input.Path)
	assert.Equal(t, 65536, cfg.Input.BufferSize)
	assert.Equal(t, 10, cfg.Dump.Limit)
	assert.Equal(t, "log", cfg.Dump.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FlagsOverride(t *testing.T) {
	dir := writeConfig(t, "input:\n  path: from-file.aof\ndump:\n  limit: 3\n")

	flags := config.Flags()
	require.NoError(t, flags.Parse([]string{"--input", "from-flag.aof", "-f", "log"}))

	cfg, err := config.Load(dir, flags)
	require.NoError(t, err)

	assert.Equal(t, "from-flag.aof", cfg.Input.Path)
	assert.Equal(t, "log", cfg.Dump.Format)
	// not set on the command line, file value stays
	assert.Equal(t, 3, cfg.Dump.Limit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Unknown format", "dump:\n  format: xml\n"},
		{"Negative limit", "dump:\n  limit: -1\n"},
		{"Zero buffer", "input:\n  buffer_size: 0\n"},
		{"Empty path", "input:\n  path: \"\"\n"},
		{"Malformed yaml", "dump: [\n"},
		{"Unknown log level", "log:\n  level: loud\n"},
		{"Unknown log format", "log:\n  format: xml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content), nil)
			assert.Error(t, err)
		})
	}
}
