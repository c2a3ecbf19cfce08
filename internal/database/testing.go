package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB connects to the database named by NOVA_TITAN_TEST_DSN and
// bootstraps the pick schema. Tests that call it skip when the variable is
// unset, so the unit suite stays runnable without infrastructure.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("NOVA_TITAN_TEST_DSN")
	if dsn == "" {
		t.Skip("integration test - set NOVA_TITAN_TEST_DSN to run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	db := &DB{pool: pool}
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	if _, err := pool.Exec(ctx, pickSchema); err != nil {
		t.Fatalf("failed to bootstrap pick schema: %v", err)
	}

	return db
}

// TeardownTestDB drops the pick table and closes the connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.pool.Exec(ctx, "DROP TABLE IF EXISTS picks"); err != nil {
		t.Logf("warning: failed to drop pick table: %v", err)
	}
	db.Close()
}
