package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/llm"
	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
)

// fakeBackend treats a credential as present when the override map holds a
// non-empty value for the engine's key.
type fakeBackend struct {
	mu       sync.Mutex
	failures map[string]error
	calls    []llm.Call
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{failures: make(map[string]error)}
}

func (f *fakeBackend) failWith(engineID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[engineID] = err
}

func (f *fakeBackend) Generate(ctx context.Context, call llm.Call) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := f.failures[call.Engine.ID]; err != nil {
		return "", err
	}
	return fmt.Sprintf("generated by %s\nsecond line", call.Engine.ID), nil
}

func (f *fakeBackend) HasCredential(engine models.EngineDescriptor, overrides map[string]string) bool {
	return overrides[engine.CredentialKey] != ""
}

func (f *fakeBackend) calledEngines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.calls))
	for i, c := range f.calls {
		ids[i] = c.Engine.ID
	}
	return ids
}

func (f *fakeBackend) userPrompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.User
	}
	return out
}

var errBoom = errors.New("boom")

func testEngine(id string) models.EngineDescriptor {
	e, ok := config.Default().Engine(id)
	if !ok {
		panic("unknown test engine " + id)
	}
	return e
}

func allKeys() map[string]string {
	return map[string]string{
		"ANTHROPIC_API_KEY": "sk-ant",
		"GROQ_API_KEY":      "gsk",
		"GOOGLE_API_KEY":    "gk",
	}
}
