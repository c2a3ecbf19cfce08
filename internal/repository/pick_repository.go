// Package repository provides pick-store backends: a PostgreSQL
// implementation for production and an in-memory one for tests and
// storage-free runs.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/database"
	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// PostgresPickStore persists the tracker's pick collection in PostgreSQL.
// The collection is small (one user's pick history) and always rewritten
// wholesale, matching the tracker's load-all/save-all contract.
type PostgresPickStore struct {
	db *database.DB
}

// NewPostgresPickStore creates a pick store backed by the given database
func NewPostgresPickStore(db *database.DB) *PostgresPickStore {
	return &PostgresPickStore{db: db}
}

// LoadAll retrieves the full pick collection in placement order
func (s *PostgresPickStore) LoadAll(ctx context.Context) ([]models.PickRecord, error) {
	query := `
		SELECT id, player, prop_category, line, pick, odds, stake, safety_score,
		       confidence, placed_at, result, observed_value, profit, settled_at
		FROM picks
		ORDER BY placed_at ASC
	`

	rows, err := s.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	var picks []models.PickRecord
	for rows.Next() {
		var p models.PickRecord
		err := rows.Scan(
			&p.ID, &p.Player, &p.PropCategory, &p.Line, &p.Pick, &p.Odds, &p.Stake,
			&p.SafetyScore, &p.Confidence, &p.PlacedAt, &p.Result, &p.ObservedValue,
			&p.Profit, &p.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, p)
	}

	return picks, rows.Err()
}

// SaveAll rewrites the full pick collection in a single transaction
func (s *PostgresPickStore) SaveAll(ctx context.Context, picks []models.PickRecord) error {
	tx, err := s.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM picks"); err != nil {
		return fmt.Errorf("failed to clear picks: %w", err)
	}

	if len(picks) > 0 {
		batch := &pgx.Batch{}
		insert := `
			INSERT INTO picks (id, player, prop_category, line, pick, odds, stake, safety_score,
			                   confidence, placed_at, result, observed_value, profit, settled_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		for _, p := range picks {
			batch.Queue(insert,
				p.ID, p.Player, p.PropCategory, p.Line, p.Pick, p.Odds, p.Stake,
				p.SafetyScore, p.Confidence, p.PlacedAt, p.Result, p.ObservedValue,
				p.Profit, p.SettledAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range picks {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to insert pick: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to flush pick batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit pick collection: %w", err)
	}

	return nil
}
