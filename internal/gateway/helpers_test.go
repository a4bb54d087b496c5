package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/auth"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/history"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/llm"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/orchestration"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/packager"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testDescription = "Create a Tire Pressure Service that monitors tire pressure on all four wheels"

type stubBackend struct {
	mu    sync.Mutex
	calls int
}

func (b *stubBackend) Generate(ctx context.Context, call llm.Call) (string, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("// %s output\nline two\nline three", call.Engine.ID), nil
}

func (b *stubBackend) HasCredential(engine models.EngineDescriptor, overrides map[string]string) bool {
	return overrides[engine.CredentialKey] != ""
}

type stubPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *stubPublisher) Publish(_ context.Context, key string, data []byte) (packager.Location, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return packager.Location{}, p.err
	}
	p.keys = append(p.keys, key)
	return packager.Location{Bucket: "archives", Key: key, Size: int64(len(data))}, nil
}

type testEnv struct {
	router    *gin.Engine
	cfg       *config.Config
	backend   *stubBackend
	sessions  *session.Manager
	tokens    *auth.TokenManager
	history   *history.MemoryRecorder
	publisher *stubPublisher
}

type envOption func(*Dependencies)

func withoutPublisher() envOption {
	return func(d *Dependencies) { d.Publisher = nil }
}

func withReady(fn func(context.Context) error) envOption {
	return func(d *Dependencies) { d.Ready = fn }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	backend := &stubBackend{}
	sessions := session.NewManager(time.Hour, nil)
	recorder := history.NewMemoryRecorder(10)
	publisher := &stubPublisher{}

	tokens, err := auth.NewTokenManager("gateway-test-secret")
	require.NoError(t, err)

	invoker := orchestration.NewInvoker(backend, cfg.FallbackEngines(), orchestration.NewDemoGuard(), nil)
	service := orchestration.NewService(cfg, invoker, recorder, nil, nil)

	deps := Dependencies{
		Config:    cfg,
		Sessions:  sessions,
		Service:   service,
		Backend:   backend,
		Tokens:    tokens,
		History:   recorder,
		Publisher: publisher,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &testEnv{
		router:    NewRouter(NewHandler(deps), tokens, nil),
		cfg:       cfg,
		backend:   backend,
		sessions:  sessions,
		tokens:    tokens,
		history:   recorder,
		publisher: publisher,
	}
}

// newSession creates a session through the API and returns its token.
func (e *testEnv) newSession(t *testing.T) (string, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.SessionID, resp.Token
}

func (e *testEnv) withCredentials(t *testing.T, token string) {
	t.Helper()
	w := e.do(t, http.MethodPut, "/api/session/credentials", token, UpdateCredentialsRequest{
		Credentials: map[string]string{"ANTHROPIC_API_KEY": "sk-ant-test"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (e *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	return e.doRaw(t, method, target, token, "application/json", reader)
}

func (e *testEnv) doRaw(t *testing.T, method, target, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func cppRequest() orchestration.Request {
	return orchestration.Request{
		Description: testDescription,
		Compliance:  "MISRA C++:2023",
		Languages:   []string{"C++14"},
	}
}
