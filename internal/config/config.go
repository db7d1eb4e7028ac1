// Package config loads and validates the worker configuration. All settings
// have working defaults so the service can run from CLI flags alone; a YAML
// file refines ports, limits and the optional subsystems.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Bundle    BundleConfig    `yaml:"bundle"`
	Limits    LimitsConfig    `yaml:"limits"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	History   HistoryConfig   `yaml:"history"`
	Events    EventsConfig    `yaml:"events"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds listener settings. AdminPort 0 disables the admin listener.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	AdminPort int    `yaml:"admin_port,omitempty"`
}

// BundleConfig points at the grammar bundle and controls hot reload.
type BundleConfig struct {
	Path     string `yaml:"path"`
	Language string `yaml:"language,omitempty"` // overrides the bundle manifest language
	Watch    bool   `yaml:"watch"`
}

// LimitsConfig bounds per-request work.
type LimitsConfig struct {
	MaxTextLen     int           `yaml:"max_text_len"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// RateLimitConfig configures the per-client token bucket limiter.
type RateLimitConfig struct {
	Enabled  bool    `yaml:"enabled"`
	RPS      float64 `yaml:"rps"`
	Burst    int     `yaml:"burst"`
	RedisURL string  `yaml:"redis_url,omitempty"` // optional decision stats backend
}

// HistoryConfig configures the SQLite check history store.
type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// EventsConfig configures the NATS check-event publisher.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with all defaults applied and no file read.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified file. Environment variables in
// the YAML content are expanded, so secrets can stay out of the file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; absence is not an error.
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Limits.MaxTextLen == 0 {
		c.Limits.MaxTextLen = 32 * 1024
	}
	if c.Limits.RequestTimeout == 0 {
		c.Limits.RequestTimeout = 30 * time.Second
	}
	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 10
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}
	if c.History.Path == "" {
		c.History.Path = "./history.db"
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 30
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "divvun.grammar.checks"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks invariants that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.AdminPort != 0 {
		if c.Server.AdminPort < 1 || c.Server.AdminPort > 65535 {
			return fmt.Errorf("server.admin_port out of range: %d", c.Server.AdminPort)
		}
		if c.Server.AdminPort == c.Server.Port {
			return fmt.Errorf("server.admin_port must differ from server.port")
		}
	}
	if c.Limits.MaxTextLen < 1 {
		return fmt.Errorf("limits.max_text_len must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("ratelimit.rps must be positive when rate limiting is enabled")
	}
	if c.Events.Enabled && c.Events.NATSURL == "" {
		return fmt.Errorf("events.nats_url is required when events are enabled")
	}
	return nil
}

// loadEnvFile loads environment variables from .env/.env.local files.
// Existing process environment variables are not overwritten.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return
		}
	}
}
