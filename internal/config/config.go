package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "config.toml"

// Environment variables that override the file.
const (
	EnvAPIKey            = "ALPHA_VANTAGE_API_KEY"
	EnvBaseURL           = "ALPHA_VANTAGE_BASE_URL"
	EnvRateLimitDelay    = "ALPHA_VANTAGE_RATE_LIMIT_DELAY"
	EnvTimeout           = "ALPHA_VANTAGE_TIMEOUT"
	EnvOutputFormat      = "ALPHA_VANTAGE_OUTPUT_FORMAT"
	EnvRequestsPerMinute = "ALPHA_VANTAGE_REQUESTS_PER_MINUTE"
	EnvLogLevel          = "ALPHA_VANTAGE_LOG_LEVEL"
)

type Config struct {
	APIKey            string  `toml:"api_key,omitempty"`
	BaseURL           string  `toml:"base_url" validate:"required,http_url"`
	RateLimitDelay    float64 `toml:"rate_limit_delay" validate:"gte=0"` // seconds
	Timeout           float64 `toml:"timeout" validate:"gt=0"`           // seconds
	OutputFormat      string  `toml:"output_format" validate:"oneof=json csv"`
	RequestsPerMinute int     `toml:"requests_per_minute" validate:"gte=0"`
	LogLevel          string  `toml:"log_level" validate:"oneof=debug info warn error"`

	// apiKeyFromEnv records whether APIKey came from the environment.
	apiKeyFromEnv bool
}

func Default() Config {
	return Config{
		BaseURL:        "https://www.alphavantage.co/query",
		RateLimitDelay: 12.0,
		Timeout:        30.0,
		OutputFormat:   "json",
		LogLevel:       "warn",
	}
}

// RateLimitDelayDuration returns the spacing between requests.
func (c Config) RateLimitDelayDuration() time.Duration { return seconds(c.RateLimitDelay) }

// TimeoutDuration returns the per-request timeout.
func (c Config) TimeoutDuration() time.Duration { return seconds(c.Timeout) }

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

// Load reads TOML config from path. If path is empty it tries config.toml in
// the working directory; a missing file yields defaults. A file that exists
// but does not parse is an error. Environment variables override the file,
// and the merged result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WithAPIKey returns a copy of c holding key as if it had been set in the
// file, so Save will write it.
func (c Config) WithAPIKey(key string) Config {
	c.APIKey = strings.TrimSpace(key)
	c.apiKeyFromEnv = false
	return c
}

// Save writes cfg to path as TOML, creating parent directories. The API
// key is written only when it came from the file or was set directly.
func Save(path string, cfg Config) error {
	if cfg.apiKeyFromEnv {
		cfg.APIKey = ""
	}
	b, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
		cfg.apiKeyFromEnv = true
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvRateLimitDelay); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil && x >= 0 {
			cfg.RateLimitDelay = x
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if x, err := strconv.ParseFloat(v, 64); err == nil && x > 0 {
			cfg.Timeout = x
		}
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.OutputFormat = v
	}
	if v := os.Getenv(EnvRequestsPerMinute); v != "" {
		if x, err := strconv.Atoi(v); err == nil && x >= 0 {
			cfg.RequestsPerMinute = x
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// ResolveAPIKey picks the key to use: an explicit value wins, then the
// environment, then the config file. It returns "" when none is set.
func ResolveAPIKey(explicit string, cfg Config) string {
	if k := strings.TrimSpace(explicit); k != "" {
		return k
	}
	if k := strings.TrimSpace(os.Getenv(EnvAPIKey)); k != "" {
		return k
	}
	return strings.TrimSpace(cfg.APIKey)
}
