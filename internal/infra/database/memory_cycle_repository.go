package database

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"household_reminder_bot/internal/domain/cycle"
)

// MemoryCycleRepository is the list-backed fallback cycle store. The
// single-open and unique-start-date invariants are enforced under the
// same lock as the insert, mirroring the conditional write the Postgres
// implementation does in SQL.
type MemoryCycleRepository struct {
	mu       sync.Mutex
	nextID   int64
	records  map[int64]*cycle.Record
	settings map[int64]*cycle.Settings
}

func NewMemoryCycleRepository() *MemoryCycleRepository {
	return &MemoryCycleRepository{
		nextID:   1,
		records:  make(map[int64]*cycle.Record),
		settings: make(map[int64]*cycle.Settings),
	}
}

func (r *MemoryCycleRepository) InsertOpen(_ context.Context, rec *cycle.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.UserID != rec.UserID {
			continue
		}
		if existing.Open() {
			return ErrCycleAlreadyOpen
		}
		if existing.StartDate.Equal(rec.StartDate) {
			return ErrDuplicateCycleStart
		}
	}
	rec.ID = r.nextID
	r.nextID++
	rec.CreatedAt = time.Now()
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *MemoryCycleRepository) CloseOpen(_ context.Context, userID int64, endDate time.Time, notes string) (*cycle.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.UserID == userID && rec.Open() {
			rec.EndDate = sql.NullTime{Time: endDate, Valid: true}
			if notes != "" {
				rec.Notes = notes
			}
			cp := *rec
			return &cp, nil
		}
	}
	return nil, ErrNoOpenCycle
}

func (r *MemoryCycleRepository) ListByUser(_ context.Context, userID int64) ([]*cycle.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*cycle.Record, 0)
	for _, rec := range r.records {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *MemoryCycleRepository) GetSettings(_ context.Context, userID int64) (*cycle.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MemoryCycleRepository) UpsertSettings(_ context.Context, s *cycle.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.settings[s.UserID] = &cp
	return nil
}
