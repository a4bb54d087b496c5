// Package config loads studio settings from built-in defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the studio service.
type Config struct {
	Server    ServerConfig                       `yaml:"server"`
	Log       LogConfig                          `yaml:"log"`
	Database  DatabaseConfig                     `yaml:"database"`
	Auth      AuthConfig                         `yaml:"auth"`
	Session   SessionConfig                      `yaml:"session"`
	Providers map[models.Provider]ProviderConfig `yaml:"providers"`
	Breaker   BreakerConfig                      `yaml:"breaker"`
	Storage   StorageConfig                      `yaml:"storage"`

	// Engines is the registry of selectable models.
	Engines []models.EngineDescriptor `yaml:"engines"`
	// Fallbacks lists engine ids in the order alternatives are tried.
	Fallbacks []string `yaml:"fallbacks"`
	// DefaultEngine is preselected for new sessions; empty means "first available".
	DefaultEngine string `yaml:"default_engine"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	// URL is optional. Without it run history stays in memory.
	URL          string `yaml:"url"`
	ConnectRetry int    `yaml:"connect_retry"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// ProviderConfig tunes the HTTP client of one provider family.
type ProviderConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerMinute int           `yaml:"rate_per_minute"`
	Burst         int           `yaml:"burst"`
}

type BreakerConfig struct {
	MaxRequests         uint32        `yaml:"max_requests"`
	Interval            time.Duration `yaml:"interval"`
	Timeout             time.Duration `yaml:"timeout"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
}

// StorageConfig points archive publishing at an S3-compatible bucket.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether enough storage settings are present to publish archives.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    5 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  2 << 20,
		},
		Log:      LogConfig{Level: "info"},
		Database: DatabaseConfig{ConnectRetry: 10},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
		Session: SessionConfig{
			TTL:           12 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Providers: map[models.Provider]ProviderConfig{
			models.ProviderAnthropic: {
				BaseURL:       "https://api.anthropic.com/v1",
				Timeout:       90 * time.Second,
				RatePerMinute: 50,
				Burst:         5,
			},
			models.ProviderGroq: {
				BaseURL:       "https://api.groq.com/openai/v1",
				Timeout:       90 * time.Second,
				RatePerMinute: 30,
				Burst:         3,
			},
			models.ProviderGoogle: {
				Timeout:       90 * time.Second,
				RatePerMinute: 15,
				Burst:         2,
			},
		},
		Breaker: BreakerConfig{
			MaxRequests:         1,
			Interval:            60 * time.Second,
			Timeout:             30 * time.Second,
			ConsecutiveFailures: 3,
		},
		Engines: []models.EngineDescriptor{
			{
				ID:            "claude-3-haiku",
				Name:          "Claude 3 Haiku",
				Provider:      models.ProviderAnthropic,
				ModelID:       "claude-3-haiku-20240307",
				CredentialKey: "ANTHROPIC_API_KEY",
			},
			{
				ID:            "llama-3.3-70b",
				Name:          "Llama 3.3 70B (Groq)",
				Provider:      models.ProviderGroq,
				ModelID:       "llama-3.3-70b-versatile",
				CredentialKey: "GROQ_API_KEY",
				Tier:          "Free (30 RPM)",
			},
			{
				ID:            "llama-4-scout",
				Name:          "Llama 4 Scout (Groq)",
				Provider:      models.ProviderGroq,
				ModelID:       "meta-llama/llama-4-scout-17b-16e-instruct",
				CredentialKey: "GROQ_API_KEY",
				Tier:          "Free (30 RPM)",
			},
			{
				ID:            "gemini-2.0-flash",
				Name:          "Gemini 2.0 Flash",
				Provider:      models.ProviderGoogle,
				ModelID:       "gemini-2.0-flash",
				CredentialKey: "GOOGLE_API_KEY",
			},
		},
		Fallbacks: []string{"claude-3-haiku", "llama-3.3-70b", "gemini-2.0-flash"},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Auth.Secret = getEnv("JWT_SECRET", cfg.Auth.Secret)
	cfg.Session.TTL = getEnvDuration("SESSION_TTL", cfg.Session.TTL)
	cfg.DefaultEngine = getEnv("DEFAULT_ENGINE", cfg.DefaultEngine)

	for provider, env := range map[models.Provider]string{
		models.ProviderAnthropic: "ANTHROPIC_BASE_URL",
		models.ProviderGroq:      "GROQ_BASE_URL",
		models.ProviderGoogle:    "GOOGLE_BASE_URL",
	} {
		pc := cfg.Providers[provider]
		pc.BaseURL = getEnv(env, pc.BaseURL)
		cfg.Providers[provider] = pc
	}

	cfg.Storage.Endpoint = getEnv("ARCHIVE_S3_ENDPOINT", cfg.Storage.Endpoint)
	cfg.Storage.AccessKey = getEnv("ARCHIVE_S3_ACCESS_KEY", cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = getEnv("ARCHIVE_S3_SECRET_KEY", cfg.Storage.SecretKey)
	cfg.Storage.Bucket = getEnv("ARCHIVE_S3_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.Region = getEnv("ARCHIVE_S3_REGION", cfg.Storage.Region)
	cfg.Storage.UseSSL = getEnvBool("ARCHIVE_S3_USE_SSL", cfg.Storage.UseSSL)
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if len(c.Engines) == 0 {
		errs = append(errs, errors.New("at least one engine must be configured"))
	}

	seen := make(map[string]bool, len(c.Engines))
	for i, e := range c.Engines {
		switch {
		case e.ID == "":
			errs = append(errs, fmt.Errorf("engines[%d]: id is required", i))
		case seen[e.ID]:
			errs = append(errs, fmt.Errorf("engines[%d]: duplicate id %q", i, e.ID))
		}
		seen[e.ID] = true
		if !e.Provider.Valid() {
			errs = append(errs, fmt.Errorf("engine %q: unknown provider %q", e.ID, e.Provider))
		}
		if e.ModelID == "" || e.CredentialKey == "" {
			errs = append(errs, fmt.Errorf("engine %q: model_id and credential_key are required", e.ID))
		}
	}

	for _, id := range c.Fallbacks {
		if !seen[id] {
			errs = append(errs, fmt.Errorf("fallback %q is not a configured engine", id))
		}
	}
	if c.DefaultEngine != "" && !seen[c.DefaultEngine] {
		errs = append(errs, fmt.Errorf("default_engine %q is not a configured engine", c.DefaultEngine))
	}

	for p, pc := range c.Providers {
		if !p.Valid() {
			errs = append(errs, fmt.Errorf("providers: unknown provider %q", p))
		}
		if pc.RatePerMinute < 0 || pc.Burst < 0 {
			errs = append(errs, fmt.Errorf("providers.%s: rate limits must not be negative", p))
		}
	}

	if c.Storage.Endpoint != "" && c.Storage.Bucket == "" {
		errs = append(errs, errors.New("storage.bucket is required when storage.endpoint is set"))
	}

	return errors.Join(errs...)
}

// Engine looks up a descriptor by id.
func (c *Config) Engine(id string) (models.EngineDescriptor, bool) {
	for _, e := range c.Engines {
		if e.ID == id {
			return e, true
		}
	}
	return models.EngineDescriptor{}, false
}

// FallbackEngines resolves Fallbacks into descriptors, skipping unknown ids.
func (c *Config) FallbackEngines() []models.EngineDescriptor {
	out := make([]models.EngineDescriptor, 0, len(c.Fallbacks))
	for _, id := range c.Fallbacks {
		if e, ok := c.Engine(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// CredentialKeys returns the distinct credential names used by the registry.
func (c *Config) CredentialKeys() []string {
	seen := map[string]bool{}
	var keys []string
	for _, e := range c.Engines {
		if !seen[e.CredentialKey] {
			seen[e.CredentialKey] = true
			keys = append(keys, e.CredentialKey)
		}
	}
	return keys
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
