// Package config loads settings for the CLI and the HTTP server.
//
// Values come from, in increasing priority: built-in defaults, an optional YAML or JSON
// file, and RESUME_* environment variables (RESUME_ORACLE_TIMEOUT sets oracle.timeout).
// A .env file is loaded into the environment first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RESUME"

// Oracle providers.
const (
	ProviderNone   = "none"
	ProviderGemini = "gemini"
	ProviderHTTP   = "http"
)

// Config is the full set of settings.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Oracle    OracleConfig    `mapstructure:"oracle"`
	Patterns  PatternsConfig  `mapstructure:"patterns"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Batch     BatchConfig     `mapstructure:"batch"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes" validate:"gt=0"`
}

// OracleConfig selects the remote oracle. Provider "none" disables it.
type OracleConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=none gemini http"`
	Endpoint string        `mapstructure:"endpoint" validate:"required_if=Provider http"`
	APIKey   string        `mapstructure:"api_key" validate:"required_if=Provider gemini"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Tier     string        `mapstructure:"tier" validate:"omitempty,oneof=lite standard advanced"`
}

// PatternsConfig points at an optional pattern library override file.
type PatternsConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig enables report persistence when URL is set.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// CacheConfig enables the Redis result cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// RateLimitConfig configures per-client request limiting on the server.
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute" validate:"gt=0"`
	Burst             int  `mapstructure:"burst" validate:"gt=0"`
}

// BatchConfig configures the batch command.
type BatchConfig struct {
	Workers int `mapstructure:"workers" validate:"min=1,max=256"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server:    ServerConfig{Port: 8080, ReadTimeout: 30 * time.Second, MaxUploadBytes: 10 << 20},
		Oracle:    OracleConfig{Provider: ProviderNone, Timeout: 5 * time.Second, Tier: "standard"},
		Cache:     CacheConfig{TTL: time.Hour},
		Log:       LogConfig{Level: "info", Format: "console"},
		RateLimit: RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 10},
		Batch:     BatchConfig{Workers: 4},
	}
}

// Load reads path (optional) and the environment on top of the defaults, then validates.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Oracle.Provider = strings.ToLower(strings.TrimSpace(cfg.Oracle.Provider))
	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = ProviderNone
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("oracle.provider", d.Oracle.Provider)
	v.SetDefault("oracle.endpoint", d.Oracle.Endpoint)
	v.SetDefault("oracle.api_key", d.Oracle.APIKey)
	v.SetDefault("oracle.timeout", d.Oracle.Timeout)
	v.SetDefault("oracle.tier", d.Oracle.Tier)
	v.SetDefault("patterns.path", d.Patterns.Path)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_minute", d.RateLimit.RequestsPerMinute)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("batch.workers", d.Batch.Workers)
}

// LoadDotEnv loads the first existing file of paths into the environment. Variables
// already set are kept. It returns the file used, or "" when none exists.
func LoadDotEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", p, err)
		}
		return p, nil
	}
	return "", nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("'%s' %s", fieldPath(fe.Namespace()), describe(fe)))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// fieldPath turns "Config.Oracle.APIKey" into "oracle.apikey".
func fieldPath(namespace string) string {
	_, rest, _ := strings.Cut(namespace, ".")
	return strings.ToLower(rest)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required_if":
		return "is required when " + strings.Replace(fe.Param(), " ", " is ", 1)
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// MergeWithDefaults returns c with unset fields filled from defaults. CLI flags build c,
// the loaded configuration supplies defaults.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.ReadTimeout == 0 {
		result.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if result.Server.MaxUploadBytes == 0 {
		result.Server.MaxUploadBytes = defaults.Server.MaxUploadBytes
	}
	if result.Oracle.Provider == "" {
		result.Oracle.Provider = defaults.Oracle.Provider
	}
	if result.Oracle.Endpoint == "" {
		result.Oracle.Endpoint = defaults.Oracle.Endpoint
	}
	if result.Oracle.APIKey == "" {
		result.Oracle.APIKey = defaults.Oracle.APIKey
	}
	if result.Oracle.Timeout == 0 {
		result.Oracle.Timeout = defaults.Oracle.Timeout
	}
	if result.Oracle.Tier == "" {
		result.Oracle.Tier = defaults.Oracle.Tier
	}
	if result.Patterns.Path == "" {
		result.Patterns.Path = defaults.Patterns.Path
	}
	if result.Database.URL == "" {
		result.Database.URL = defaults.Database.URL
	}
	if result.Cache.RedisURL == "" {
		result.Cache.RedisURL = defaults.Cache.RedisURL
	}
	if result.Cache.TTL == 0 {
		result.Cache.TTL = defaults.Cache.TTL
	}
	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}
	if result.RateLimit.RequestsPerMinute == 0 {
		result.RateLimit.RequestsPerMinute = defaults.RateLimit.RequestsPerMinute
	}
	if result.RateLimit.Burst == 0 {
		result.RateLimit.Burst = defaults.RateLimit.Burst
	}
	if result.Batch.Workers == 0 {
		result.Batch.Workers = defaults.Batch.Workers
	}

	// Bools cannot distinguish unset from false, so RateLimit.Enabled comes from defaults.
	result.RateLimit.Enabled = defaults.RateLimit.Enabled
	return result
}
