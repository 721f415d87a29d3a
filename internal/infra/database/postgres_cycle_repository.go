package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"household_reminder_bot/internal/domain/cycle"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type PostgresCycleRepository struct {
	db *sql.DB
}

func NewPostgresCycleRepository(db *sql.DB) *PostgresCycleRepository {
	return &PostgresCycleRepository{db: db}
}

// InsertOpen creates a new open record. The single-open invariant is
// enforced in the statement itself rather than check-then-write, so two
// racing starts cannot both succeed.
func (r *PostgresCycleRepository) InsertOpen(ctx context.Context, rec *cycle.Record) error {
	query := `INSERT INTO cycle_records (user_id, start_date, notes)
               SELECT $1, $2, $3
               WHERE NOT EXISTS (
                   SELECT 1 FROM cycle_records WHERE user_id = $1 AND end_date IS NULL
               )
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, rec.UserID, rec.StartDate, rec.Notes).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCycleAlreadyOpen
		}
		// Unique index on (user_id, start_date) guards same-day duplicates.
		if strings.Contains(err.Error(), "unique constraint") {
			return ErrDuplicateCycleStart
		}
		return fmt.Errorf("error creating cycle record: %w", err)
	}
	return nil
}

// CloseOpen sets the end date on the user's single open record.
func (r *PostgresCycleRepository) CloseOpen(ctx context.Context, userID int64, endDate time.Time, notes string) (*cycle.Record, error) {
	query := `UPDATE cycle_records
               SET end_date = $1,
                   notes = CASE WHEN $2 = '' THEN notes ELSE $2 END
               WHERE user_id = $3 AND end_date IS NULL
               RETURNING id, user_id, start_date, end_date, notes, created_at`
	rec := &cycle.Record{}
	err := r.db.QueryRowContext(ctx, query, endDate, notes, userID).
		Scan(&rec.ID, &rec.UserID, &rec.StartDate, &rec.EndDate, &rec.Notes, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoOpenCycle
		}
		return nil, fmt.Errorf("error closing cycle record: %w", err)
	}
	return rec, nil
}

func (r *PostgresCycleRepository) ListByUser(ctx context.Context, userID int64) ([]*cycle.Record, error) {
	query := `SELECT id, user_id, start_date, end_date, notes, created_at
               FROM cycle_records WHERE user_id = $1 ORDER BY start_date DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing cycle records: %w", err)
	}
	defer rows.Close()

	records := make([]*cycle.Record, 0)
	for rows.Next() {
		rec := &cycle.Record{}
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.StartDate, &rec.EndDate, &rec.Notes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning cycle record: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cycle records: %w", err)
	}
	return records, nil
}

func (r *PostgresCycleRepository) GetSettings(ctx context.Context, userID int64) (*cycle.Settings, error) {
	query := `SELECT user_id, default_cycle_length, reminder_days_before
               FROM cycle_settings WHERE user_id = $1`
	s := &cycle.Settings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.UserID, &s.DefaultCycleLength, &s.ReminderDaysBefore)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("error getting cycle settings: %w", err)
	}
	return s, nil
}

func (r *PostgresCycleRepository) UpsertSettings(ctx context.Context, s *cycle.Settings) error {
	query := `INSERT INTO cycle_settings (user_id, default_cycle_length, reminder_days_before)
               VALUES ($1, $2, $3)
               ON CONFLICT (user_id) DO UPDATE
               SET default_cycle_length = EXCLUDED.default_cycle_length,
                   reminder_days_before = EXCLUDED.reminder_days_before`
	if _, err := r.db.ExecContext(ctx, query, s.UserID, s.DefaultCycleLength, s.ReminderDaysBefore); err != nil {
		return fmt.Errorf("error upserting cycle settings: %w", err)
	}
	return nil
}
