package postgresqltest

import (
	"context"
	"os"
	"testing"

	"github.com/senani-kuruwita/attendance-backend/internal/pkg/database"
)

// newTestDatabase connects to TEST_DATABASE_URL and skips the test when it is unset.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

// truncate clears the given tables.
func truncate(t *testing.T, db *database.DB, tables ...string) {
	t.Helper()

	ctx := context.Background()
	for _, table := range tables {
		if _, err := db.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Fatalf("failed to truncate table %s: %v", table, err)
		}
	}
}
