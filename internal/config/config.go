package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Default values applied when neither the config file nor the environment
// sets a field.
const (
	DefaultDatabaseDriver = "sqlite"
	DefaultDatabaseDSN    = "calsync.db"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Config holds the runtime configuration for calsync.
type Config struct {
	GoogleClientID     string `toml:"google_client_id"`
	GoogleClientSecret string `toml:"google_client_secret"`
	GoogleRedirectURL  string `toml:"google_redirect_url"`

	// DatabaseDriver is "sqlite" or "postgres".
	DatabaseDriver string `toml:"database_driver"`
	DatabaseDSN    string `toml:"database_dsn"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Load reads configuration in increasing order of precedence: built-in
// defaults, an optional calsync.toml (current directory, then
// $HOME/.config/calsync/), an optional .env file, and finally the process
// environment. Missing files are not errors.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseDriver: DefaultDatabaseDriver,
		DatabaseDSN:    DefaultDatabaseDSN,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}

	if err := loadFile(cfg); err != nil {
		return nil, err
	}

	// .env is a convenience for local development; the real environment
	// always wins, so Overload is deliberately not used.
	_ = godotenv.Load()

	applyEnv(cfg)

	return cfg, nil
}

// loadFile merges calsync.toml into cfg if one is found.
func loadFile(cfg *Config) error {
	paths := []string{"calsync.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "calsync", "calsync.toml"))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return nil
	}

	return nil
}

// applyEnv overrides cfg fields from the process environment.
func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(&cfg.GoogleClientID, "CALSYNC_GOOGLE_CLIENT_ID")
	set(&cfg.GoogleClientSecret, "CALSYNC_GOOGLE_CLIENT_SECRET")
	set(&cfg.GoogleRedirectURL, "CALSYNC_GOOGLE_REDIRECT_URL")
	set(&cfg.DatabaseDriver, "CALSYNC_DATABASE_DRIVER")
	set(&cfg.DatabaseDSN, "CALSYNC_DATABASE_DSN")
	set(&cfg.LogLevel, "CALSYNC_LOG_LEVEL")
	set(&cfg.LogFormat, "CALSYNC_LOG_FORMAT")
}

// ValidateOAuth checks that the fields required for provider calls are set.
func (c *Config) ValidateOAuth() error {
	if c.GoogleClientID == "" {
		return fmt.Errorf("google client ID is not configured")
	}
	if c.GoogleClientSecret == "" {
		return fmt.Errorf("google client secret is not configured")
	}
	return nil
}

// ValidateDatabase checks that the store configuration is usable.
func (c *Config) ValidateDatabase() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q (expected sqlite or postgres)", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN is not configured")
	}
	return nil
}
