package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	env "github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file,
// with deployment-time environment variables layered on top.
type Config struct {
	API      APIConfig      `toml:"api"`
	Google   GoogleConfig   `toml:"google"`
	Database DatabaseConfig `toml:"database"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	BaseURL    string `toml:"base_url" env:"SHRTX_API_URL"`
	PathPrefix string `toml:"path_prefix" env:"SHRTX_API_SLUG"`
}

// GoogleConfig contains third-party identity settings.
type GoogleConfig struct {
	ClientID     string `toml:"client_id" env:"SHRTX_GOOGLE_CLIENT_ID"`
	ClientSecret string `toml:"client_secret" env:"SHRTX_GOOGLE_CLIENT_SECRET"`
	RedirectURI  string `toml:"redirect_uri" env:"SHRTX_GOOGLE_REDIRECT_URI"`
}

// DatabaseConfig contains settings for the local session-cookie database.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"SHRTX_DB_PATH"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overlays environment variables onto the config.
//
// A .env file in the working directory is loaded first if present, mirroring
// how the deployment environment provides SHRTX_API_URL and friends.
func ApplyEnv(config *Config) error {
	_ = godotenv.Load()

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
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
