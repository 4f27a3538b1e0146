// Package config loads engine configuration from files and environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full runtime configuration for the engine and CLI.
type Config struct {
	SourceLang string
	TargetLang string
	Debounce   time.Duration
	ChunkSize  int

	Cache   CacheConfig
	Adapter AdapterConfig
}

// CacheConfig configures the durable cache tier.
type CacheConfig struct {
	Path     string        // SQLite database path
	RedisURL string        // Redis URL; takes precedence over Path when set
	TTL      time.Duration // Entry time to live
	Capacity int           // In-process tier capacity
}

// AdapterConfig configures the translation backend.
type AdapterConfig struct {
	Kind              string // "http" or "openai"
	Endpoint          string
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// SetDefaults registers the default values on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source_lang", "en")
	v.SetDefault("target_lang", "as")
	v.SetDefault("debounce", 50*time.Millisecond)
	v.SetDefault("chunk_size", 50)

	v.SetDefault("cache.path", "lingo.db")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", 7*24*time.Hour)
	v.SetDefault("cache.capacity", 2000)

	v.SetDefault("adapter.kind", "http")
	v.SetDefault("adapter.endpoint", "http://localhost:5000")
	v.SetDefault("adapter.api_key", "")
	v.SetDefault("adapter.model", "")
	v.SetDefault("adapter.timeout", 15*time.Second)
	v.SetDefault("adapter.requests_per_minute", 0)
}

// Load reads configuration from the given file path, falling back to
// defaults and LINGO_ environment variables. An empty path skips the
// file and uses defaults plus the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("LINGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		SourceLang: v.GetString("source_lang"),
		TargetLang: v.GetString("target_lang"),
		Debounce:   v.GetDuration("debounce"),
		ChunkSize:  v.GetInt("chunk_size"),
		Cache: CacheConfig{
			Path:     v.GetString("cache.path"),
			RedisURL: v.GetString("cache.redis_url"),
			TTL:      v.GetDuration("cache.ttl"),
			Capacity: v.GetInt("cache.capacity"),
		},
		Adapter: AdapterConfig{
			Kind:              v.GetString("adapter.kind"),
			Endpoint:          v.GetString("adapter.endpoint"),
			APIKey:            v.GetString("adapter.api_key"),
			Model:             v.GetString("adapter.model"),
			Timeout:           v.GetDuration("adapter.timeout"),
			RequestsPerMinute: v.GetInt("adapter.requests_per_minute"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.TargetLang == "" {
		return fmt.Errorf("target_lang must not be empty")
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1, got %d", c.ChunkSize)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	switch c.Adapter.Kind {
	case "http", "openai", "mock":
	default:
		return fmt.Errorf("unknown adapter kind %q", c.Adapter.Kind)
	}
	return nil
}
