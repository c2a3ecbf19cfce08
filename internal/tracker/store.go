// Package tracker records committed picks and their realized outcomes,
// and aggregates them into performance and calibration statistics.
package tracker

import (
	"context"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// Store persists the full pick collection as a single unit. The tracker
// reads it once at startup and writes it back after every mutation, so a
// backend only needs these two primitives.
type Store interface {
	LoadAll(ctx context.Context) ([]models.PickRecord, error)
	SaveAll(ctx context.Context, picks []models.PickRecord) error
}
