package database

import (
	"context"
	"sort"
	"sync"

	"household_reminder_bot/internal/domain/todo"
)

// MemoryTodoStore is the stand-in for the external todo collaborator
// (a spreadsheet in the original deployment). The digest service only
// ever talks to the todo.Store interface.
type MemoryTodoStore struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]*todo.Item
	monthly map[int64]*todo.MonthlyItem
}

func NewMemoryTodoStore() *MemoryTodoStore {
	return &MemoryTodoStore{
		nextID:  1,
		items:   make(map[int64]*todo.Item),
		monthly: make(map[int64]*todo.MonthlyItem),
	}
}

func (s *MemoryTodoStore) Add(_ context.Context, item *todo.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.nextID
	s.nextID++
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *MemoryTodoStore) List(_ context.Context, userID int64) ([]*todo.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*todo.Item, 0, len(s.items))
	for _, it := range s.items {
		if it.UserID == userID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryTodoStore) Complete(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.UserID != userID {
		return ErrTodoNotFound
	}
	it.Done = true
	return nil
}

func (s *MemoryTodoStore) Delete(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.UserID != userID {
		return ErrTodoNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryTodoStore) AddMonthly(_ context.Context, item *todo.MonthlyItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.nextID
	s.nextID++
	cp := *item
	s.monthly[item.ID] = &cp
	return nil
}

func (s *MemoryTodoStore) ListMonthly(_ context.Context, userID int64) ([]*todo.MonthlyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*todo.MonthlyItem, 0, len(s.monthly))
	for _, it := range s.monthly {
		if it.UserID == userID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
