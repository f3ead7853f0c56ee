package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Storage backend identifiers.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// GatewayConfig holds settings for the remote send endpoint.
type GatewayConfig struct {
	// URL is the full endpoint the send POST is issued against.
	URL string `mapstructure:"url" yaml:"url"`

	// TimeoutSec bounds a single send call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// StorageConfig selects and locates the durable persistence backend.
type StorageConfig struct {
	// Backend is "sqlite" or "file".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the database or JSON file path. Empty means the default
	// location under the user data directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// From is the fixed sender address stamped on outgoing records.
	// It is not editable from the compose form.
	From string `mapstructure:"from" yaml:"from"`

	Gateway GatewayConfig `mapstructure:"gateway" yaml:"gateway"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	// LogFile receives diagnostic output. Storage failures are logged
	// here rather than surfaced in the UI.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// defaultGatewayURL is the stock send endpoint used until the user
// configures their own in settings.
const defaultGatewayURL = "https://foody-auth.vercel.app/api/email/mail/send"

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/maildraft/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "maildraft", "config.yaml")
}

// DefaultDataDir returns the directory holding the database, exports,
// and the log file.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "maildraft")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Gateway: GatewayConfig{
			URL:        defaultGatewayURL,
			TimeoutSec: 30,
		},
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("gateway.url", defaultGatewayURL)
	v.SetDefault("gateway.timeout_sec", 30)
	v.SetDefault("storage.backend", BackendSQLite)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("from", cfg.From)
	v.Set("gateway", cfg.Gateway)
	v.Set("storage", cfg.Storage)
	v.Set("log_file", cfg.LogFile)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
