package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Migration   MigrationConfig   `toml:"migration"`
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Log         LogConfig         `toml:"log"`
}

// MigrationConfig contains the naming, privacy and pacing policy for a run.
type MigrationConfig struct {
	Prefix       string `toml:"prefix"`
	Privacy      string `toml:"privacy"`
	DelayMS      int    `toml:"delay_ms"`
	ProgressFile string `toml:"progress_file"`
	ReportDir    string `toml:"report_dir"`
}

// CredentialsConfig contains the OAuth client and token storage settings shared by both accounts.
type CredentialsConfig struct {
	ClientSecrets string `toml:"client_secrets"`
	TokenDir      string `toml:"token_dir"`
	RedirectPort  int    `toml:"redirect_port"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Delay returns the configured inter-call delay.
func (m MigrationConfig) Delay() time.Duration {
	return time.Duration(m.DelayMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Migration.Privacy) {
	case "private", "public", "unlisted":
	default:
		return fmt.Errorf("%w: migration.privacy must be private, public or unlisted (got %q)", ErrInvalidConfig, c.Migration.Privacy)
	}

	if c.Migration.DelayMS < 0 {
		return fmt.Errorf("%w: migration.delay_ms must not be negative", ErrInvalidConfig)
	}
	if c.Migration.ProgressFile == "" {
		return fmt.Errorf("%w: migration.progress_file is required", ErrInvalidConfig)
	}
	if c.Credentials.RedirectPort <= 0 || c.Credentials.RedirectPort > 65535 {
		return fmt.Errorf("%w: credentials.redirect_port out of range", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
