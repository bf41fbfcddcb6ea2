// Package config loads service settings from defaults, an optional YAML file
// and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Port string `yaml:"port"`

	Log        LogConfig        `yaml:"log"`
	Storage    StorageConfig    `yaml:"storage"`
	Cache      CacheConfig      `yaml:"cache"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Advisor    AdvisorConfig    `yaml:"advisor"`

	// OpenTelemetry collector endpoint; empty disables tracing.
	OtelEndpoint string `yaml:"otel_endpoint"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

type StorageConfig struct {
	Driver     string `yaml:"driver"` // memory, sqlite
	SQLitePath string `yaml:"sqlite_path"`
}

type CacheConfig struct {
	Driver    string        `yaml:"driver"` // memory, redis, none
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

type CalculatorConfig struct {
	// Yearly points returned in a loan schedule when the request does not ask.
	MaxSchedulePoints int `yaml:"max_schedule_points"`
}

// AdvisorConfig points at an OpenAI-compatible chat completions API.
type AdvisorConfig struct {
	APIKey  string        `yaml:"api_key"`
	APIURL  string        `yaml:"api_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port: "8080",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			Driver:     "memory",
			SQLitePath: "data/calculations.db",
		},
		Cache: CacheConfig{
			Driver:    "memory",
			RedisAddr: "localhost:6379",
			TTL:       15 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Burst:             10,
		},
		Calculator: CalculatorConfig{
			MaxSchedulePoints: 10,
		},
		Advisor: AdvisorConfig{
			APIURL:  "https://api.openai.com/v1/chat/completions",
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
	}
}

// Load builds the configuration. path may be empty, in which case the
// CONFIG_FILE variable is consulted; a missing file is not an error only
// when no path was given at all.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = GetEnvOrDefault("CONFIG_FILE", "")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = GetEnvOrDefault("PORT", c.Port)
	c.Log.Level = strings.ToLower(GetEnvOrDefault("LOG_LEVEL", c.Log.Level))
	c.Log.Format = strings.ToLower(GetEnvOrDefault("LOG_FORMAT", c.Log.Format))
	c.Storage.Driver = strings.ToLower(GetEnvOrDefault("STORAGE_DRIVER", c.Storage.Driver))
	c.Storage.SQLitePath = GetEnvOrDefault("SQLITE_PATH", c.Storage.SQLitePath)
	c.Cache.Driver = strings.ToLower(GetEnvOrDefault("CACHE_DRIVER", c.Cache.Driver))
	c.Cache.RedisAddr = GetEnvOrDefault("REDIS_ADDR", c.Cache.RedisAddr)
	c.Cache.TTL = GetEnvAsDuration("CACHE_TTL", c.Cache.TTL)
	c.RateLimit.RequestsPerMinute = GetEnvAsInt("RATE_LIMIT_PER_MINUTE", c.RateLimit.RequestsPerMinute)
	c.RateLimit.Burst = GetEnvAsInt("RATE_LIMIT_BURST", c.RateLimit.Burst)
	c.Calculator.MaxSchedulePoints = GetEnvAsInt("MAX_SCHEDULE_POINTS", c.Calculator.MaxSchedulePoints)
	c.OtelEndpoint = GetEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", c.OtelEndpoint)
	c.Advisor.APIKey = GetEnvOrDefault("ADVISOR_API_KEY", c.Advisor.APIKey)
	c.Advisor.APIURL = GetEnvOrDefault("ADVISOR_API_URL", c.Advisor.APIURL)
	c.Advisor.Model = GetEnvOrDefault("ADVISOR_MODEL", c.Advisor.Model)
	c.Advisor.Timeout = GetEnvAsDuration("ADVISOR_TIMEOUT", c.Advisor.Timeout)
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Cache.Driver {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d/min burst %d", c.RateLimit.RequestsPerMinute, c.RateLimit.Burst)
	}
	if c.Calculator.MaxSchedulePoints <= 0 {
		return fmt.Errorf("max schedule points must be positive, got %d", c.Calculator.MaxSchedulePoints)
	}
	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns the default value if not set
func GetEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt retrieves an environment variable as an integer with a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration retrieves an environment variable as a duration with a default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
