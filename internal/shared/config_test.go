package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./genresense.db" {
			t.Errorf("expected database path ./genresense.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if config.Gemini.Model != "gemini-2.5-flash" {
			t.Errorf("expected model gemini-2.5-flash, got %s", config.Gemini.Model)
		}
		if config.Quota.MaxPerDay != 20 {
			t.Errorf("expected 20 analyses per day, got %d", config.Quota.MaxPerDay)
		}
		if got := config.Upload.MaxFileSize(); got != 52428800 {
			t.Errorf("expected 52428800 byte limit, got %d", got)
		}
		if got := config.Upload.MaxDuration().Seconds(); got != 600 {
			t.Errorf("expected 600s duration limit, got %v", got)
		}
		if len(config.Upload.AcceptedTypes) != 5 {
			t.Errorf("expected 5 accepted types, got %v", config.Upload.AcceptedTypes)
		}
		if config.History.Limit != 10 {
			t.Errorf("expected history limit 10, got %d", config.History.Limit)
		}
		if config.Gemini.HasCredential() {
			t.Error("default config should not carry a credential")
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}
		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig overrides defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[gemini]
api_key = "test_key"
requests_per_minute = 2

[quota]
max_per_day = 5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}
		if !config.Gemini.HasCredential() {
			t.Error("expected api key to count as a credential")
		}
		if config.Quota.MaxPerDay != 5 {
			t.Errorf("expected quota 5, got %d", config.Quota.MaxPerDay)
		}
		if config.Gemini.Model != "gemini-2.5-flash" {
			t.Errorf("unset keys should keep defaults, got model %q", config.Gemini.Model)
		}
	})

	t.Run("LoadConfig rejects invalid limits", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[history]\nlimit = 0\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		tests := []struct {
			name string
			env  map[string]string
			want string
		}{
			{name: "gemini key wins", env: map[string]string{EnvAPIKey: "a", EnvAPIKeyLegacy: "b"}, want: "a"},
			{name: "legacy key", env: map[string]string{EnvAPIKeyLegacy: "b"}, want: "b"},
			{name: "no env keeps config", env: map[string]string{}, want: "from-file"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				config.Gemini.APIKey = "from-file"
				config.ApplyEnv(func(k string) string { return tt.env[k] })

				if config.Gemini.APIKey != tt.want {
					t.Errorf("expected api key %q, got %q", tt.want, config.Gemini.APIKey)
				}
			})
		}
	})
}
