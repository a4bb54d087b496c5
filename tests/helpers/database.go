package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetTestDatabasePool creates a database connection pool for testing
func GetTestDatabasePool(ctx context.Context) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// DatabaseURL prefers DATABASE_URL and otherwise builds the URL from the
// POSTGRES_* variables.
func DatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=prefer",
		getEnv("POSTGRES_USER", "postgres"),
		getEnv("POSTGRES_PASSWORD", "postgres"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB", "sdv_studio_test"))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TestDatabase provides database utilities for testing
type TestDatabase struct {
	Pool *pgxpool.Pool
	ctx  context.Context
}

// NewTestDatabase connects to the test database. The test is skipped when
// no database is reachable.
func NewTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" && os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("DATABASE_URL or POSTGRES_HOST not set; skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := GetTestDatabasePool(ctx)
	if err != nil {
		t.Skipf("database unavailable: %v", err)
	}

	return &TestDatabase{
		Pool: pool,
		ctx:  context.Background(),
	}
}

// Close closes the database connection
func (db *TestDatabase) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// DeleteRuns removes the given runs so tests leave no history behind.
func (db *TestDatabase) DeleteRuns(t *testing.T, runIDs ...string) {
	t.Helper()
	if len(runIDs) == 0 {
		return
	}
	if _, err := db.Pool.Exec(db.ctx, `DELETE FROM generated_services WHERE run_id = ANY($1)`, runIDs); err != nil {
		t.Logf("Warning: Failed to delete runs: %v", err)
	}
}

// CountRuns returns the number of history rows for a session.
func (db *TestDatabase) CountRuns(t *testing.T, sessionID string) int {
	t.Helper()
	var count int
	err := db.Pool.QueryRow(db.ctx,
		`SELECT COUNT(*) FROM generated_services WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count runs: %v", err)
	}
	return count
}
