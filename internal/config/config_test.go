package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "en", cfg.App.Language)
	assert.Equal(t, "month", cfg.Stats.DefaultPeriod)
	assert.False(t, cfg.Stats.IncludeRevlog)
}

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[app]
language = "ja"

[server]
port = 9000
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "ja", cfg.App.Language)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 900, cfg.Window.DefaultWidth)
	assert.Equal(t, 10, cfg.Bridge.Burst)
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app\n"), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Stats.DefaultPeriod = "life"
	cfg.Assets.OverrideDir = t.TempDir()

	require.NoError(t, cfg.SaveTo(path))
	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "unknown language",
			mutate:  func(c *Config) { c.App.Language = "fr" },
			wantMsg: "language must be one of [en ja]",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantMsg: "port must be 65,535 or less",
		},
		{
			name:    "zero rate",
			mutate:  func(c *Config) { c.Bridge.CommandsPerSecond = 0 },
			wantMsg: "commands_per_second must be greater than 0",
		},
		{
			name:    "default narrower than minimum",
			mutate:  func(c *Config) { c.Window.DefaultWidth = 500 },
			wantMsg: "default_width",
		},
		{
			name:    "bad period",
			mutate:  func(c *Config) { c.Stats.DefaultPeriod = "week" },
			wantMsg: "default_period",
		},
		{
			name:    "missing override dir",
			mutate:  func(c *Config) { c.Assets.OverrideDir = "/definitely/not/here" },
			wantMsg: "override_dir",
		},
		{
			name:    "empty storage path",
			mutate:  func(c *Config) { c.Storage.Path = "" },
			wantMsg: "path is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
