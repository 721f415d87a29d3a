package database

import (
	"context"
	"sort"
	"sync"

	"household_reminder_bot/internal/domain/reminder"
)

// MemoryReminderRepository is the list-backed fallback store used when no
// DATABASE_URL is configured. IDs are monotonic per store.
type MemoryReminderRepository struct {
	mu     sync.Mutex
	nextID int64
	short  map[int64]*reminder.Short
	fixed  map[int64]*reminder.Fixed
}

func NewMemoryReminderRepository() *MemoryReminderRepository {
	return &MemoryReminderRepository{
		nextID: 1,
		short:  make(map[int64]*reminder.Short),
		fixed:  make(map[int64]*reminder.Fixed),
	}
}

func (r *MemoryReminderRepository) AddShort(_ context.Context, s *reminder.Short) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID
	r.nextID++
	cp := *s
	r.short[s.ID] = &cp
	return nil
}

func (r *MemoryReminderRepository) AddFixed(_ context.Context, f *reminder.Fixed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID
	r.nextID++
	cp := *f
	r.fixed[f.ID] = &cp
	return nil
}

func (r *MemoryReminderRepository) ListShort(_ context.Context) ([]*reminder.Short, error) {
	return r.listShort(func(*reminder.Short) bool { return true }), nil
}

func (r *MemoryReminderRepository) ListShortByUser(_ context.Context, userID int64) ([]*reminder.Short, error) {
	return r.listShort(func(s *reminder.Short) bool { return s.UserID == userID }), nil
}

func (r *MemoryReminderRepository) listShort(keep func(*reminder.Short) bool) []*reminder.Short {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*reminder.Short, 0, len(r.short))
	for _, s := range r.short {
		if keep(s) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return out
}

func (r *MemoryReminderRepository) ListFixed(_ context.Context) ([]*reminder.Fixed, error) {
	return r.listFixed(func(*reminder.Fixed) bool { return true }), nil
}

func (r *MemoryReminderRepository) ListFixedByUser(_ context.Context, userID int64) ([]*reminder.Fixed, error) {
	return r.listFixed(func(f *reminder.Fixed) bool { return f.UserID == userID }), nil
}

func (r *MemoryReminderRepository) listFixed(keep func(*reminder.Fixed) bool) []*reminder.Fixed {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*reminder.Fixed, 0, len(r.fixed))
	for _, f := range r.fixed {
		if keep(f) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return out
}

func (r *MemoryReminderRepository) DeleteShort(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.short[id]; !ok {
		return ErrShortReminderNotFound
	}
	delete(r.short, id)
	return nil
}

func (r *MemoryReminderRepository) DeleteFixed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fixed[id]; !ok {
		return ErrFixedReminderNotFound
	}
	delete(r.fixed, id)
	return nil
}
