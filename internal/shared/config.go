package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment names recognized in [AppConfig.Environment].
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config represents the application configuration loaded from a TOML file.
//
// Environment variables override file values (see [Config.ApplyEnv]).
type Config struct {
	App         AppConfig         `toml:"app"`
	Credentials CredentialsConfig `toml:"credentials"`
	Turnstile   TurnstileConfig   `toml:"turnstile"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Realtime    RealtimeConfig    `toml:"realtime"`
}

// AppConfig contains application-wide settings.
type AppConfig struct {
	Environment string `toml:"environment"` // development or production
}

// CredentialsConfig contains catalog-provider credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	LastFM  LastFMConfig  `toml:"lastfm"`
}

// SpotifyConfig contains Spotify API credentials for the client-credentials flow.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// LastFMConfig contains Last.fm API credentials.
type LastFMConfig struct {
	APIKey string `toml:"api_key"`
}

// TurnstileConfig contains Cloudflare Turnstile keys for the bot-verification gate.
type TurnstileConfig struct {
	SecretKey string `toml:"secret_key"`
	SiteKey   string `toml:"site_key"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// RealtimeConfig contains settings for the realtime token broker.
type RealtimeConfig struct {
	SigningKey string `toml:"signing_key"`
	TokenTTL   int    `toml:"token_ttl"` // seconds
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingConfig, path, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnv()

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded
// example config, with environment variable overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnv()
	return &config
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

// ApplyEnv overrides file-provided values with environment variables.
//
// Recognized variables: POLLSTER_ENV, TURNSTILE_SECRET_KEY, TURNSTILE_SITE_KEY,
// SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET, LASTFM_API_KEY, POLLSTER_DB_PATH,
// POLLSTER_PORT, REALTIME_SIGNING_KEY.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("POLLSTER_ENV"); v != "" {
		c.App.Environment = v
	}
	if v := os.Getenv("TURNSTILE_SECRET_KEY"); v != "" {
		c.Turnstile.SecretKey = v
	}
	if v := os.Getenv("TURNSTILE_SITE_KEY"); v != "" {
		c.Turnstile.SiteKey = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("LASTFM_API_KEY"); v != "" {
		c.Credentials.LastFM.APIKey = v
	}
	if v := os.Getenv("POLLSTER_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("POLLSTER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("REALTIME_SIGNING_KEY"); v != "" {
		c.Realtime.SigningKey = v
	}
}

// IsProduction reports whether the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// Validate checks startup-time configuration requirements.
//
// A missing Turnstile secret in production is a configuration error, not a
// runtime one: the server refuses to start rather than running with the
// verification gate unusable.
func (c *Config) Validate() error {
	if c.IsProduction() && c.Turnstile.SecretKey == "" {
		return fmt.Errorf("%w: turnstile secret key is required in production", ErrInvalidConfig)
	}
	return nil
}
