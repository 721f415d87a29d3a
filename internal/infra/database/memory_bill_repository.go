package database

import (
	"context"
	"sort"
	"sync"

	"household_reminder_bot/internal/domain/bill"
)

type billKey struct {
	bank  string
	month string
}

// MemoryBillRepository is the list-backed fallback bill store.
type MemoryBillRepository struct {
	mu      sync.Mutex
	records map[billKey]*bill.Record
}

func NewMemoryBillRepository() *MemoryBillRepository {
	return &MemoryBillRepository{records: make(map[billKey]*bill.Record)}
}

func (r *MemoryBillRepository) Upsert(_ context.Context, rec *bill.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records[billKey{bank: rec.BankName, month: rec.MonthKey}] = &cp
	return nil
}

func (r *MemoryBillRepository) GetByBankMonth(_ context.Context, bankName, monthKey string) (*bill.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[billKey{bank: bankName, month: monthKey}]
	if !ok {
		return nil, ErrBillNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *MemoryBillRepository) LatestByBank(_ context.Context, bankName string) (*bill.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *bill.Record
	for k, rec := range r.records {
		if k.bank != bankName {
			continue
		}
		if latest == nil || rec.MonthKey > latest.MonthKey {
			latest = rec
		}
	}
	if latest == nil {
		return nil, ErrBillNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *MemoryBillRepository) ListAll(_ context.Context) ([]*bill.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*bill.Record, 0, len(r.records))
	for _, rec := range r.records {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MonthKey != out[j].MonthKey {
			return out[i].MonthKey > out[j].MonthKey
		}
		return out[i].BankName < out[j].BankName
	})
	return out, nil
}
