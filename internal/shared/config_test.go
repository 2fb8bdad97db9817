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

		if config.App.Environment != EnvDevelopment {
			t.Errorf("expected development environment, got %s", config.App.Environment)
		}

		if config.Database.Path != "pollster.db" {
			t.Errorf("expected database path pollster.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Realtime.TokenTTL != 3600 {
			t.Errorf("expected token ttl 3600, got %d", config.Realtime.TokenTTL)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

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

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[app]
environment = "production"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 9090

[turnstile]
secret_key = "file_secret"
site_key = "file_site"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[credentials.lastfm]
api_key = "test_lastfm_key"
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

		if config.Server.Port != 9090 {
			t.Errorf("expected server port 9090, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if !config.IsProduction() {
			t.Error("expected production environment")
		}
	})

	t.Run("LoadConfigMissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected MissingConfig, got %v", err)
		}
	})

	t.Run("ApplyEnvOverrides", func(t *testing.T) {
		t.Setenv("POLLSTER_ENV", "production")
		t.Setenv("TURNSTILE_SECRET_KEY", "env_secret")
		t.Setenv("POLLSTER_PORT", "3000")

		config := DefaultConfig()

		if config.App.Environment != EnvProduction {
			t.Errorf("expected environment override, got %s", config.App.Environment)
		}
		if config.Turnstile.SecretKey != "env_secret" {
			t.Errorf("expected secret override, got %s", config.Turnstile.SecretKey)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected port override, got %d", config.Server.Port)
		}
	})

	t.Run("ValidateProductionRequiresTurnstileSecret", func(t *testing.T) {
		config := DefaultConfig()
		config.App.Environment = EnvProduction
		config.Turnstile.SecretKey = ""

		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected InvalidConfig, got %v", err)
		}

		config.Turnstile.SecretKey = "present"
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("ValidateDevelopmentAllowsEmptySecret", func(t *testing.T) {
		config := DefaultConfig()
		config.App.Environment = EnvDevelopment
		config.Turnstile.SecretKey = ""

		if err := config.Validate(); err != nil {
			t.Errorf("expected valid development config, got %v", err)
		}
	})
}
