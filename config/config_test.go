package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "models/gemini-2.0-flash-exp", cfg.Model)
	assert.Equal(t, "AUDIO", cfg.Modality)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, time.Minute, cfg.ReminderCheckPeriod)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"model: models/custom\nvoice: Kore\nstore_driver: sqlite\nstore_dsn: /tmp/agriguru.db\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "models/custom", cfg.Model)
	assert.Equal(t, "Kore", cfg.Voice)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "/tmp/agriguru.db", cfg.StoreDSN)
	// Untouched values keep their defaults.
	assert.Equal(t, "AUDIO", cfg.Modality)
}

func TestLoad_YAMLDuration(t *testing.T) {
	t.Run("duration string", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("reminder_check_period: 90s\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.ReminderCheckPeriod)
	})

	t.Run("bare seconds", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("reminder_check_period: 45\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, cfg.ReminderCheckPeriod)
	})

	t.Run("unparseable value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("reminder_check_period: soonish\n"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.StoreDriver)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("voice: Kore\n"), 0o600))

	t.Setenv("AGRIGURU_VOICE", "Puck")
	t.Setenv("AGRIGURU_REMINDER_PERIOD", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Puck", cfg.Voice)
	assert.Equal(t, 30*time.Second, cfg.ReminderCheckPeriod)
}

func TestLoad_PlainSecondsPeriod(t *testing.T) {
	t.Setenv("AGRIGURU_REMINDER_PERIOD", "90")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.ReminderCheckPeriod)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("sqlite without dsn", func(t *testing.T) {
		t.Setenv("AGRIGURU_STORE_DRIVER", "sqlite")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("AGRIGURU_STORE_DRIVER", "etcd")
		_, err := Load("")
		assert.Error(t, err)
	})
}
