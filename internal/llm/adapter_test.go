package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	claude = models.EngineDescriptor{
		ID: "claude-3-haiku", Name: "Claude 3 Haiku", Provider: models.ProviderAnthropic,
		ModelID: "claude-3-haiku-20240307", CredentialKey: "TEST_ANTHROPIC_KEY",
	}
	llama = models.EngineDescriptor{
		ID: "llama-3.3-70b", Name: "Llama 3.3 70B", Provider: models.ProviderGroq,
		ModelID: "llama-3.3-70b-versatile", CredentialKey: "TEST_GROQ_KEY",
	}
	gemini = models.EngineDescriptor{
		ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Provider: models.ProviderGoogle,
		ModelID: "gemini-2.0-flash", CredentialKey: "TEST_GOOGLE_KEY",
	}
)

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	for p, pc := range cfg.Providers {
		pc.BaseURL = baseURL
		pc.Timeout = 5 * time.Second
		pc.RatePerMinute = 0
		cfg.Providers[p] = pc
	}
	cfg.Breaker.ConsecutiveFailures = 2
	cfg.Breaker.Timeout = time.Minute
	return cfg
}

func call(engine models.EngineDescriptor, key string) Call {
	return Call{
		Engine:    engine,
		Overrides: map[string]string{engine.CredentialKey: key},
		System:    "You are an automotive software requirements engineer.",
		User:      "Generate SRS for: brakes",
		MaxTokens: 1500,
	}
}

func TestAdapter_Anthropic(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		expectedText  string
		expectedErr   error
		expectedInErr string
	}{
		{
			name: "successful_completion",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/messages", r.URL.Path)
				assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
				assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

				var req anthropicRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "claude-3-haiku-20240307", req.Model)
				assert.Equal(t, 1500, req.MaxTokens)
				assert.Equal(t, "You are an automotive software requirements engineer.", req.System)
				require.Len(t, req.Messages, 1)
				assert.Equal(t, "user", req.Messages[0].Role)

				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"content":[{"type":"text","text":"| SWR-001 |"},{"type":"text","text":" done"}]}`)
			},
			expectedText: "| SWR-001 | done",
		},
		{
			name: "server_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, "overloaded")
			},
			expectedErr:   ErrBackend,
			expectedInErr: "anthropic returned status 500: overloaded",
		},
		{
			name: "invalid_json_response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "not json")
			},
			expectedErr: ErrMalformedResponse,
		},
		{
			name: "no_text_blocks",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"content":[{"type":"tool_use"}]}`)
			},
			expectedErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			adapter := NewAdapter(testConfig(server.URL), nil)
			text, err := adapter.Generate(context.Background(), call(claude, "sk-test"))

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				if tt.expectedInErr != "" {
					assert.Contains(t, err.Error(), tt.expectedInErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedText, text)
		})
	}
}

func TestAdapter_Groq(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		expectedText string
		expectedErr  error
	}{
		{
			name: "successful_completion",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))

				var req chatRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
				assert.InDelta(t, 0.3, req.Temperature, 1e-9)
				require.Len(t, req.Messages, 2)
				assert.Equal(t, "system", req.Messages[0].Role)
				assert.Equal(t, "user", req.Messages[1].Role)
				assert.Equal(t, "Generate SRS for: brakes", req.Messages[1].Content)

				io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"package common.api"}}]}`)
			},
			expectedText: "package common.api",
		},
		{
			name: "rate_limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			expectedErr: ErrBackend,
		},
		{
			name: "empty_choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"choices":[]}`)
			},
			expectedErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			adapter := NewAdapter(testConfig(server.URL), nil)
			text, err := adapter.Generate(context.Background(), call(llama, "gsk-test"))

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedText, text)
		})
	}
}

func TestAdapter_Gemini(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent"), r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `You are an automotive software requirements engineer.\n\n---\n\nGenerate SRS for: brakes`)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"ARXML body"}]}}]}`)
	}))
	defer server.Close()

	adapter := NewAdapter(testConfig(server.URL), nil)
	text, err := adapter.Generate(context.Background(), call(gemini, "g-test"))
	require.NoError(t, err)
	assert.Equal(t, "ARXML body", text)
}

func TestAdapter_CredentialMissingSkipsNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	t.Setenv("TEST_ANTHROPIC_KEY", "")
	adapter := NewAdapter(testConfig(server.URL), nil)

	_, err := adapter.Generate(context.Background(), call(claude, ""))
	assert.ErrorIs(t, err, ErrCredentialMissing)
	assert.Contains(t, err.Error(), "TEST_ANTHROPIC_KEY")
	assert.Zero(t, atomic.LoadInt32(&hits))
	assert.False(t, adapter.HasCredential(claude, nil))
}

func TestAdapter_OverrideBeatsEnvironment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer from-session", r.Header.Get("Authorization"))
		io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer server.Close()

	t.Setenv("TEST_GROQ_KEY", "from-env")
	adapter := NewAdapter(testConfig(server.URL), nil)

	assert.True(t, adapter.HasCredential(llama, nil))
	_, err := adapter.Generate(context.Background(), call(llama, "from-session"))
	require.NoError(t, err)
}

func TestAdapter_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := NewAdapter(testConfig(server.URL), nil)
	for i := 0; i < 2; i++ {
		_, err := adapter.Generate(context.Background(), call(claude, "sk"))
		assert.ErrorIs(t, err, ErrBackend)
	}

	_, err := adapter.Generate(context.Background(), call(claude, "sk"))
	assert.ErrorIs(t, err, ErrBackend)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	// Breakers are per engine.
	_, err = adapter.Generate(context.Background(), call(llama, "gsk"))
	assert.NotContains(t, err.Error(), "circuit breaker is open")
}

func TestAdapter_MalformedResponsesDoNotTripBreaker(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		io.WriteString(w, "garbage")
	}))
	defer server.Close()

	adapter := NewAdapter(testConfig(server.URL), nil)
	for i := 0; i < 4; i++ {
		_, err := adapter.Generate(context.Background(), call(claude, "sk"))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&hits))
}

func TestAdapter_RateLimitWaitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	pc := cfg.Providers[models.ProviderGroq]
	pc.RatePerMinute = 1
	pc.Burst = 1
	cfg.Providers[models.ProviderGroq] = pc
	adapter := NewAdapter(cfg, nil)

	_, err := adapter.Generate(context.Background(), call(llama, "gsk"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = adapter.Generate(ctx, call(llama, "gsk"))
	assert.ErrorIs(t, err, ErrBackend)
	assert.Contains(t, err.Error(), "rate limit wait")
}
