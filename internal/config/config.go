package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	App     AppConfig     `toml:"app"`
	Storage StorageConfig `toml:"storage"`
	Window  WindowConfig  `toml:"window"`
	Stats   StatsConfig   `toml:"stats"`
	Server  ServerConfig  `toml:"server"`
	Bridge  BridgeConfig  `toml:"bridge"`
	Assets  AssetsConfig  `toml:"assets"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool   `toml:"debug_mode"`                      // Strict surfaces and verbose logging
	Language  string `toml:"language" validate:"oneof=en ja"` // UI language
}

// StorageConfig locates the collection database.
type StorageConfig struct {
	Path string `toml:"path" validate:"required"`
}

// WindowConfig contains the statistics window defaults.
type WindowConfig struct {
	DefaultWidth  int `toml:"default_width" validate:"gtefield=MinWidth"`
	DefaultHeight int `toml:"default_height" validate:"min=300"`
	MinWidth      int `toml:"min_width" validate:"min=400"`
}

// StatsConfig contains report settings.
type StatsConfig struct {
	DefaultPeriod string `toml:"default_period" validate:"oneof=month year life"`
	IncludeRevlog bool   `toml:"include_revlog"` // Only used by the CLI; the card dialog never shows it
}

// ServerConfig contains the browser-mode HTTP server settings.
type ServerConfig struct {
	Port           int      `toml:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `toml:"allowed_origins" validate:"dive,required"`
}

// BridgeConfig throttles commands coming from rendered content.
type BridgeConfig struct {
	CommandsPerSecond float64 `toml:"commands_per_second" validate:"gt=0"`
	Burst             int     `toml:"burst" validate:"min=1"`
}

// AssetsConfig configures web asset overrides.
type AssetsConfig struct {
	OverrideDir string `toml:"override_dir" validate:"omitempty,dir"`
	Watch       bool   `toml:"watch"` // Reload overrides when files change
}

// Dir returns ~/.deckstats.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".deckstats"), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dbPath := "collection.db"
	if dir, err := Dir(); err == nil {
		dbPath = filepath.Join(dir, "collection.db")
	}
	return &Config{
		App: AppConfig{
			DebugMode: false,
			Language:  "en",
		},
		Storage: StorageConfig{Path: dbPath},
		Window: WindowConfig{
			DefaultWidth:  900,
			DefaultHeight: 700,
			MinWidth:      700,
		},
		Stats: StatsConfig{
			DefaultPeriod: "month",
			IncludeRevlog: false,
		},
		Server: ServerConfig{
			Port:           8765,
			AllowedOrigins: []string{"http://localhost:8765", "wails://wails"},
		},
		Bridge: BridgeConfig{
			CommandsPerSecond: 5,
			Burst:             10,
		},
		Assets: AssetsConfig{Watch: true},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads ~/.deckstats/config.toml. Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads and validates the configuration at path. Keys missing from
// the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves the configuration to ~/.deckstats/config.toml.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration values and reports every invalid field.
func (c *Config) Validate() error {
	validate, trans, err := newValidator()
	if err != nil {
		return err
	}

	err = validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
