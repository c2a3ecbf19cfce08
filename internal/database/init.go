package database

import (
	"context"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/config"
)

// pickSchema is the single table the tracker persists into. The whole
// collection is rewritten on every mutation, so no migration tooling is
// needed beyond this bootstrap.
const pickSchema = `
CREATE TABLE IF NOT EXISTS picks (
	id             UUID PRIMARY KEY,
	player         TEXT NOT NULL,
	prop_category  TEXT NOT NULL,
	line           DOUBLE PRECISION NOT NULL,
	pick           TEXT NOT NULL,
	odds           INTEGER NOT NULL,
	stake          NUMERIC(12,2) NOT NULL,
	safety_score   INTEGER NOT NULL,
	confidence     DOUBLE PRECISION NOT NULL,
	placed_at      TIMESTAMPTZ NOT NULL,
	result         TEXT NOT NULL,
	observed_value DOUBLE PRECISION,
	profit         NUMERIC(12,2) NOT NULL DEFAULT 0,
	settled_at     TIMESTAMPTZ
)`

// Initialize creates a database connection pool and bootstraps the pick
// schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, pickSchema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
