package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(id string, at time.Time) models.GeneratedServiceContext {
	return models.GeneratedServiceContext{
		RunID:       id,
		SessionID:   "session-1",
		Name:        "Tire Pressure Monitor",
		Compliance:  "MISRA C++:2023",
		Languages:   []string{"C++14"},
		CompletedAt: at,
	}
}

func TestMemoryRecorder_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder(10)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, rec.Record(ctx, run("a", base)))
	require.NoError(t, rec.Record(ctx, run("c", base.Add(2*time.Minute))))
	require.NoError(t, rec.Record(ctx, run("b", base.Add(time.Minute))))

	runs, err := rec.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].RunID)
	assert.Equal(t, "b", runs[1].RunID)
}

func TestMemoryRecorder_Capacity(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder(3)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, rec.Record(ctx, run(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Second))))
	}

	runs, err := rec.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-4", runs[0].RunID)
	assert.Equal(t, "run-2", runs[2].RunID)
}

func TestMemoryRecorder_RecentIsACopy(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder(0)
	require.NoError(t, rec.Record(ctx, run("a", time.Now())))

	runs, err := rec.Recent(ctx, 5)
	require.NoError(t, err)
	runs[0].RunID = "mutated"

	again, err := rec.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].RunID)
}
