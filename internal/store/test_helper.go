package store

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vntrieu/mafia/internal/database"
)

// TestMigrationsDir is the migrations directory relative to a package under internal/.
const TestMigrationsDir = "../../migrations"

// SetupTestDB connects to TEST_DATABASE_URL (or DATABASE_URL), applies migrations and empties the tables.
// The test is skipped when neither variable is set. Exported for use by other test packages.
func SetupTestDB(t *testing.T, migrationsDir string) *pgxpool.Pool {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		t.Skip("DATABASE_URL or TEST_DATABASE_URL environment variable is required for tests")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, databaseURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := database.Migrate(ctx, pool, migrationsDir, nil); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := cleanupTestData(ctx, pool); err != nil {
		t.Logf("warning: failed to cleanup test data: %v", err)
	}
	return pool
}

func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) error {
	// Children first.
	for _, table := range []string{"game_events", "game_state_snapshots", "games"} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}
