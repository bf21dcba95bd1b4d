package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.Equal(t, ":8080", cfg.Addr)
	require.EqualValues(t, 10<<20, cfg.MaxBodyBytes)
	require.Equal(t, 15*time.Second, cfg.ReadTimeout)
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "production", cfg.SentryEnvironment)
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when environment is empty", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, DefaultConfig().Addr, cfg.Addr)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("PENCIL_ADDR", ":9090")
		t.Setenv("PENCIL_MAX_BODY_BYTES", "1024")
		t.Setenv("PENCIL_READ_TIMEOUT", "3s")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.Equal(t, ":9090", cfg.Addr)
		require.EqualValues(t, 1024, cfg.MaxBodyBytes)
		require.Equal(t, 3*time.Second, cfg.ReadTimeout)
		// Untouched settings keep their defaults.
		require.Equal(t, 30*time.Second, cfg.WriteTimeout)
	})

	t.Run("malformed environment value fails", func(t *testing.T) {
		t.Setenv("PENCIL_MAX_BODY_BYTES", "not a number")

		_, err := LoadConfig()
		require.Error(t, err)
	})
}

func TestLoadConfigFile(t *testing.T) {
	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "pencil.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("file overlays defaults", func(t *testing.T) {
		path := writeConfig(t, "addr: \":7000\"\nmax_body_bytes: 2048\n")

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		require.Equal(t, ":7000", cfg.Addr)
		require.EqualValues(t, 2048, cfg.MaxBodyBytes)
		require.Equal(t, 15*time.Second, cfg.ReadTimeout)
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		path := writeConfig(t, "addr: \":7000\"\n")
		t.Setenv("PENCIL_ADDR", ":9999")

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		require.Equal(t, ":9999", cfg.Addr)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := writeConfig(t, "addr: [unclosed\n")
		_, err := LoadConfigFile(path)
		require.Error(t, err)
	})
}
