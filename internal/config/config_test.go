package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTempConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, ProviderOpenAI, cfg.Generation.Provider)
	assert.Equal(t, 3, cfg.Generation.CallsPerMinute)
	assert.True(t, cfg.Image.Enabled)
	assert.Equal(t, []string{"07:30", "11:00", "15:30", "19:00"}, cfg.Schedule.PostTimes)
	assert.Equal(t, 180, cfg.Platform.SearchPer15Min)
	assert.Equal(t, 50, cfg.Platform.PostPer15Min)
	assert.NotEmpty(t, cfg.Persona.SystemPrompt)
	assert.NotEmpty(t, cfg.Persona.FallbackPost)
}

func TestSaveAndLoad(t *testing.T) {
	setTempConfigHome(t)

	cfg := Default()
	cfg.Timezone = "Europe/London"
	cfg.Engagement.MaxCandidates = 3
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", loaded.Timezone)
	assert.Equal(t, 3, loaded.Engagement.MaxCandidates)
	assert.Equal(t, cfg.Persona.SystemPrompt, loaded.Persona.SystemPrompt)

	// Load fills in default data paths.
	assert.NotEmpty(t, loaded.Paths.RecordFile)
	assert.NotEmpty(t, loaded.Paths.DayFlagFile)
	assert.NotEmpty(t, loaded.Paths.StoreFile)
}

func TestLoadOrCreateFirstRun(t *testing.T) {
	home := setTempConfigHome(t)

	cfg, err := LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", cfg.Timezone)

	_, err = os.Stat(filepath.Join(home, "voicebot", "config.toml"))
	assert.NoError(t, err)
}

func TestPathsOverrideRespected(t *testing.T) {
	setTempConfigHome(t)

	cfg := Default()
	cfg.Paths = PathsConfig{
		RecordFile:  "/var/lib/voicebot/log.csv",
		DayFlagFile: "/var/lib/voicebot/flag",
		StoreFile:   "/var/lib/voicebot/db.sqlite",
	}
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/voicebot/log.csv", loaded.Paths.RecordFile)
	assert.Equal(t, "/var/lib/voicebot/flag", loaded.Paths.DayFlagFile)
}
