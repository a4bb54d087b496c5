package history

import (
	"context"
	"fmt"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS generated_services (
	run_id       TEXT PRIMARY KEY,
	session_id   TEXT NOT NULL,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL,
	compliance   TEXT NOT NULL,
	engine       TEXT NOT NULL,
	languages    TEXT[] NOT NULL DEFAULT '{}',
	total_lines  INTEGER NOT NULL DEFAULT 0,
	has_srs      BOOLEAN NOT NULL DEFAULT FALSE,
	has_code     BOOLEAN NOT NULL DEFAULT FALSE,
	stages       JSONB NOT NULL DEFAULT '{}'::jsonb,
	completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresRecorder stores runs in the generated_services table.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder wraps an open pool. Call EnsureSchema before use.
func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

// EnsureSchema creates the history table if it does not exist.
func (r *PostgresRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	return nil
}

// Record inserts a run. Re-recording the same run id is a no-op.
func (r *PostgresRecorder) Record(ctx context.Context, svc models.GeneratedServiceContext) error {
	languages := svc.Languages
	if languages == nil {
		languages = []string{}
	}
	stages := svc.Stages
	if stages == nil {
		stages = map[string]bool{}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO generated_services
		   (run_id, session_id, name, description, compliance, engine, languages,
		    total_lines, has_srs, has_code, stages, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (run_id) DO NOTHING`,
		svc.RunID, svc.SessionID, svc.Name, svc.Description, svc.Compliance, svc.Engine, languages,
		svc.TotalLines, svc.HasSRS, svc.HasCode, stages, svc.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", svc.RunID, err)
	}
	return nil
}

// Recent returns the newest runs first.
func (r *PostgresRecorder) Recent(ctx context.Context, limit int) ([]models.GeneratedServiceContext, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := r.pool.Query(ctx,
		`SELECT run_id, session_id, name, description, compliance, engine, languages,
		        total_lines, has_srs, has_code, stages, completed_at
		 FROM generated_services
		 ORDER BY completed_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	runs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.GeneratedServiceContext])
	if err != nil {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}
	return runs, nil
}
