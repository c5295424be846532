package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "file", cfg.Cards.Source)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
log:
  level: debug
cards:
  source: postgres
  dsn: postgres://localhost/rift
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Server.Addr)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "postgres", cfg.Cards.Source)
	require.Equal(t, "postgres://localhost/rift", cfg.Cards.DSN)
}

func TestLoadRejectsBadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cards:\n  source: carrier-pigeon\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
