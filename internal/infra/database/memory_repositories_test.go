package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"household_reminder_bot/internal/domain/bill"
	"household_reminder_bot/internal/domain/reminder"
)

func TestMemoryBillRepositoryLatestByBank(t *testing.T) {
	repo := NewMemoryBillRepository()
	ctx := context.Background()

	for _, rec := range []*bill.Record{
		{BankName: "永豐", Amount: "NT$1,000", DueDate: "2025/07/24", MonthKey: "2025-07"},
		{BankName: "永豐", Amount: "NT$2,000", DueDate: "2025/09/24", MonthKey: "2025-09"},
		{BankName: "永豐", Amount: "NT$3,000", DueDate: "2025/08/24", MonthKey: "2025-08"},
		{BankName: "台新", Amount: "NT$9,000", DueDate: "2025/12/10", MonthKey: "2025-12"},
	} {
		if err := repo.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	latest, err := repo.LatestByBank(ctx, "永豐")
	if err != nil {
		t.Fatalf("LatestByBank: %v", err)
	}
	if latest.MonthKey != "2025-09" {
		t.Errorf("LatestByBank month = %q, want 2025-09", latest.MonthKey)
	}

	if _, err := repo.LatestByBank(ctx, "星展"); !errors.Is(err, ErrBillNotFound) {
		t.Errorf("LatestByBank(missing) error = %v, want ErrBillNotFound", err)
	}
}

func TestMemoryBillRepositoryUpsertOverwrites(t *testing.T) {
	repo := NewMemoryBillRepository()
	ctx := context.Background()

	if err := repo.Upsert(ctx, &bill.Record{BankName: "永豐", Amount: "NT$1,000", MonthKey: "2025-09"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.Upsert(ctx, &bill.Record{BankName: "永豐", Amount: "NT$2,000", MonthKey: "2025-09"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].Amount != "NT$2,000" {
		t.Errorf("upsert did not overwrite: %+v", all)
	}
}

func TestMemoryReminderRepositoryIDsAndDelete(t *testing.T) {
	repo := NewMemoryReminderRepository()
	ctx := context.Background()
	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

	a := &reminder.Short{UserID: 1, Content: "a", CreatedAt: now, RemindAt: now.Add(time.Minute)}
	b := &reminder.Short{UserID: 1, Content: "b", CreatedAt: now, RemindAt: now.Add(2 * time.Minute)}
	if err := repo.AddShort(ctx, a); err != nil {
		t.Fatalf("AddShort: %v", err)
	}
	if err := repo.AddShort(ctx, b); err != nil {
		t.Fatalf("AddShort: %v", err)
	}
	if a.ID == 0 || b.ID == 0 || a.ID == b.ID {
		t.Fatalf("ids not assigned uniquely: %d, %d", a.ID, b.ID)
	}

	if err := repo.DeleteShort(ctx, a.ID); err != nil {
		t.Fatalf("DeleteShort: %v", err)
	}
	if err := repo.DeleteShort(ctx, a.ID); !errors.Is(err, ErrShortReminderNotFound) {
		t.Errorf("double delete error = %v, want ErrShortReminderNotFound", err)
	}

	left, err := repo.ListShort(ctx)
	if err != nil {
		t.Fatalf("ListShort: %v", err)
	}
	if len(left) != 1 || left[0].Content != "b" {
		t.Errorf("remaining reminders wrong: %+v", left)
	}
}

func TestMemoryEventRepositoryStamps(t *testing.T) {
	repo := NewMemoryEventRepository()
	ctx := context.Background()

	if got, _ := repo.LastFired(ctx, "digest_morning"); got != "" {
		t.Errorf("LastFired(unset) = %q, want empty", got)
	}
	if err := repo.SetLastFired(ctx, "digest_morning", "2025-09-10"); err != nil {
		t.Fatalf("SetLastFired: %v", err)
	}
	if got, _ := repo.LastFired(ctx, "digest_morning"); got != "2025-09-10" {
		t.Errorf("LastFired = %q, want 2025-09-10", got)
	}
	if err := repo.ClearLastFired(ctx, "digest_morning"); err != nil {
		t.Fatalf("ClearLastFired: %v", err)
	}
	if got, _ := repo.LastFired(ctx, "digest_morning"); got != "" {
		t.Errorf("LastFired after clear = %q, want empty", got)
	}
}
