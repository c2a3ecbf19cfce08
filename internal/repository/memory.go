package repository

import (
	"context"
	"sync"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

// MemoryPickStore keeps the pick collection in memory. It backs
// storage-free runs and tests.
type MemoryPickStore struct {
	mu    sync.Mutex
	picks []models.PickRecord
}

// NewMemoryPickStore creates an empty in-memory pick store
func NewMemoryPickStore() *MemoryPickStore {
	return &MemoryPickStore{}
}

// LoadAll returns a copy of the stored collection
func (s *MemoryPickStore) LoadAll(_ context.Context) ([]models.PickRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PickRecord, len(s.picks))
	copy(out, s.picks)
	return out, nil
}

// SaveAll replaces the stored collection
func (s *MemoryPickStore) SaveAll(_ context.Context, picks []models.PickRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.picks = make([]models.PickRecord, len(picks))
	copy(s.picks, picks)
	return nil
}
