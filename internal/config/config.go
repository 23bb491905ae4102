// Package config provides configuration management.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	qerrors "quote-calculator/internal/errors"
	"quote-calculator/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. QUOTE_SERVER_ADDR
const EnvPrefix = "QUOTE"

// Config is the main application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Routing contains distance API configuration
	Routing RoutingConfig `json:"routing" mapstructure:"routing"`

	// Secrets describes where the routing API key is read from
	Secrets SecretsConfig `json:"secrets" mapstructure:"secrets"`

	// Catalog contains pricing catalog configuration
	Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" mapstructure:"addr"`

	// PublicDir holds the static front-end
	PublicDir string `json:"public_dir" mapstructure:"public_dir"`

	// AllowedOrigins for CORS; "*" allows any
	AllowedOrigins []string `json:"allowed_origins" mapstructure:"allowed_origins"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// RoutingConfig contains openrouteservice settings
type RoutingConfig struct {
	BaseURL   string        `json:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	RateLimit float64       `json:"rate_limit" mapstructure:"rate_limit"`
}

// SecretsConfig contains API key source settings
type SecretsConfig struct {
	// File is read first; its trimmed contents are the key
	File string `json:"file" mapstructure:"file"`

	// EnvVar is consulted when the file is absent or empty
	EnvVar string `json:"env_var" mapstructure:"env_var"`
}

// CatalogConfig contains catalog settings
type CatalogConfig struct {
	// Path to an HCL catalog; empty uses the built-in catalog
	Path string `json:"path" mapstructure:"path"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":3000",
			PublicDir:       "public",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Routing: RoutingConfig{
			BaseURL:   "https://api.openrouteservice.org",
			Timeout:   10 * time.Second,
			RateLimit: 5,
		},
		Secrets: SecretsConfig{
			File:   "secrets",
			EnvVar: "ORS_API",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads configuration from an optional file and QUOTE_* environment variables.
// An empty path looks for config.{yaml,json} in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case path != "" && errors.Is(err, os.ErrNotExist):
			return nil, qerrors.Config("config file not found", err).WithContext("path", path)
		default:
			return nil, qerrors.Config("read config", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, qerrors.Config("unmarshal config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.public_dir", d.Server.PublicDir)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("routing.base_url", d.Routing.BaseURL)
	v.SetDefault("routing.timeout", d.Routing.Timeout)
	v.SetDefault("routing.rate_limit", d.Routing.RateLimit)
	v.SetDefault("secrets.file", d.Secrets.File)
	v.SetDefault("secrets.env_var", d.Secrets.EnvVar)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
}

// Validate checks values viper cannot
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return qerrors.Config("server.addr must not be empty", nil)
	}
	if c.Routing.Timeout <= 0 {
		return qerrors.Config("routing.timeout must be positive", nil).
			WithContext("timeout", c.Routing.Timeout.String())
	}
	if c.Routing.RateLimit < 0 {
		return qerrors.Config("routing.rate_limit must not be negative", nil)
	}
	return nil
}
