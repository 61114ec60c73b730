package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables consulted by [ApplyEnv] and the CLI.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvAPIKeyLegacy = "API_KEY"
	EnvConfigPath   = "GENRESENSE_CONFIG"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Gemini   GeminiConfig   `toml:"gemini"`
	Quota    QuotaConfig    `toml:"quota"`
	Upload   UploadConfig   `toml:"upload"`
	History  HistoryConfig  `toml:"history"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	CORSOrigin string `toml:"cors_origin"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GeminiConfig contains the classification provider settings.
type GeminiConfig struct {
	APIKey            string `toml:"api_key"`
	AccessToken       string `toml:"access_token"`
	Model             string `toml:"model"`
	BaseURL           string `toml:"base_url"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	MockDelayMS       int    `toml:"mock_delay_ms"`
}

// HasCredential reports whether a real provider call can be made.
func (g GeminiConfig) HasCredential() bool {
	return g.APIKey != "" || g.AccessToken != ""
}

// Timeout returns the request timeout as a duration.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// MockDelay returns the offline classifier delay as a duration.
func (g GeminiConfig) MockDelay() time.Duration {
	return time.Duration(g.MockDelayMS) * time.Millisecond
}

// QuotaConfig bounds the number of analyses per calendar day.
type QuotaConfig struct {
	MaxPerDay int `toml:"max_per_day"`
}

// UploadConfig contains the upload guards.
type UploadConfig struct {
	MaxFileSizeMB      int64    `toml:"max_file_size_mb"`
	MaxDurationSeconds int      `toml:"max_duration_seconds"`
	AcceptedTypes      []string `toml:"accepted_types"`
}

// MaxFileSize returns the size limit in bytes.
func (u UploadConfig) MaxFileSize() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// MaxDuration returns the duration limit.
func (u UploadConfig) MaxDuration() time.Duration {
	return time.Duration(u.MaxDurationSeconds) * time.Second
}

// HistoryConfig bounds the persisted analysis history.
type HistoryConfig struct {
	Limit int `toml:"limit"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads a TOML file on top of the embedded defaults, so a partial
// file only overrides the keys it sets.
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

// Validate rejects limits that would make the analyzer unusable.
func (c *Config) Validate() error {
	switch {
	case c.Quota.MaxPerDay < 0:
		return fmt.Errorf("%w: quota.max_per_day must be >= 0", ErrInvalidConfig)
	case c.Upload.MaxFileSizeMB <= 0:
		return fmt.Errorf("%w: upload.max_file_size_mb must be > 0", ErrInvalidConfig)
	case len(c.Upload.AcceptedTypes) == 0:
		return fmt.Errorf("%w: upload.accepted_types is empty", ErrInvalidConfig)
	case c.History.Limit <= 0:
		return fmt.Errorf("%w: history.limit must be > 0", ErrInvalidConfig)
	case c.Gemini.Model == "":
		return fmt.Errorf("%w: gemini.model is empty", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv lets the environment supply the provider credential.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range []string{EnvAPIKey, EnvAPIKeyLegacy} {
		if v := getenv(key); v != "" {
			c.Gemini.APIKey = v
			return
		}
	}
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
