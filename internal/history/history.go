// Package history keeps a log of completed pipeline runs.
package history

import (
	"context"
	"sort"
	"sync"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
)

// DefaultLimit bounds Recent when the caller passes a non-positive limit.
const DefaultLimit = 20

// Recorder persists generated service summaries.
type Recorder interface {
	Record(ctx context.Context, svc models.GeneratedServiceContext) error
	Recent(ctx context.Context, limit int) ([]models.GeneratedServiceContext, error)
}

// MemoryRecorder is a bounded in-process Recorder.
type MemoryRecorder struct {
	mu       sync.RWMutex
	capacity int
	runs     []models.GeneratedServiceContext
}

// NewMemoryRecorder keeps at most capacity runs, dropping the oldest.
func NewMemoryRecorder(capacity int) *MemoryRecorder {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryRecorder{capacity: capacity}
}

func (m *MemoryRecorder) Record(_ context.Context, svc models.GeneratedServiceContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs = append(m.runs, svc)
	if over := len(m.runs) - m.capacity; over > 0 {
		m.runs = append([]models.GeneratedServiceContext(nil), m.runs[over:]...)
	}
	return nil
}

// Recent returns the newest runs first.
func (m *MemoryRecorder) Recent(_ context.Context, limit int) ([]models.GeneratedServiceContext, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	m.mu.RLock()
	out := make([]models.GeneratedServiceContext, len(m.runs))
	copy(out, m.runs)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
