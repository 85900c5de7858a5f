package save

import (
	"context"
	"sync"
)

// Store is the durable home of the save snapshot. One record under one
// fixed key; Save overwrites, Load reports absence via ok=false, Delete
// clears. A storage failure is reported, never fatal to the engine.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (snap Snapshot, ok bool, err error)
	Delete(ctx context.Context) error
	Close() error
}

// MemoryStore keeps the snapshot in memory (dev/test use).
type MemoryStore struct {
	mu   sync.Mutex
	snap *Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := snap
	s.snap = &clone
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return Snapshot{}, false, nil
	}
	return *s.snap, true, nil
}

func (s *MemoryStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}

func (s *MemoryStore) Close() error { return nil }
