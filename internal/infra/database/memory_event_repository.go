package database

import (
	"context"
	"sync"
)

// MemoryEventRepository keeps the scheduler's last-fired stamps in memory.
type MemoryEventRepository struct {
	mu     sync.Mutex
	stamps map[string]string
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{stamps: make(map[string]string)}
}

func (r *MemoryEventRepository) LastFired(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stamps[key], nil
}

func (r *MemoryEventRepository) SetLastFired(_ context.Context, key, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamps[key] = date
	return nil
}

func (r *MemoryEventRepository) ClearLastFired(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stamps, key)
	return nil
}
