package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Len(t, cfg.Engines, 4)

	fallbacks := cfg.FallbackEngines()
	require.Len(t, fallbacks, 3)
	assert.Equal(t, "claude-3-haiku-20240307", fallbacks[0].ModelID)
	assert.Equal(t, "llama-3.3-70b-versatile", fallbacks[1].ModelID)
	assert.Equal(t, "gemini-2.0-flash", fallbacks[2].ModelID)

	assert.Equal(t, 30, cfg.Providers[models.ProviderGroq].RatePerMinute)
	assert.False(t, cfg.Storage.Enabled())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studio.yaml")
	yamlDoc := `
server:
  port: "9090"
  read_timeout: 5s
session:
  ttl: 1h
fallbacks: ["llama-3.3-70b"]
default_engine: llama-4-scout
storage:
  endpoint: localhost:9000
  bucket: archives
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	t.Setenv("PORT", "7070")
	t.Setenv("GROQ_BASE_URL", "http://groq.local")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "7070", cfg.Server.Port, "env overrides the file")
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"llama-3.3-70b"}, cfg.Fallbacks)
	assert.Equal(t, "llama-4-scout", cfg.DefaultEngine)
	assert.Equal(t, "http://groq.local", cfg.Providers[models.ProviderGroq].BaseURL)
	assert.True(t, cfg.Storage.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown fallback",
			mutate:  func(c *Config) { c.Fallbacks = append(c.Fallbacks, "gpt-9") },
			wantErr: `fallback "gpt-9" is not a configured engine`,
		},
		{
			name: "duplicate engine",
			mutate: func(c *Config) {
				c.Engines = append(c.Engines, c.Engines[0])
			},
			wantErr: "duplicate id",
		},
		{
			name: "unknown provider",
			mutate: func(c *Config) {
				c.Engines[0].Provider = "openai"
			},
			wantErr: "unknown provider",
		},
		{
			name:    "bucket required",
			mutate:  func(c *Config) { c.Storage.Endpoint = "localhost:9000" },
			wantErr: "storage.bucket is required",
		},
		{
			name:    "bad default engine",
			mutate:  func(c *Config) { c.DefaultEngine = "missing" },
			wantErr: "default_engine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCredentialKeys(t *testing.T) {
	keys := Default().CredentialKeys()
	assert.Equal(t, []string{"ANTHROPIC_API_KEY", "GROQ_API_KEY", "GOOGLE_API_KEY"}, keys)
}
