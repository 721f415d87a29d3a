package database

import (
	"context"
	"database/sql"
	"fmt"

	"household_reminder_bot/internal/domain/reminder"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type PostgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminderRepository(db *sql.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

func (r *PostgresReminderRepository) AddShort(ctx context.Context, s *reminder.Short) error {
	query := `INSERT INTO short_reminders (user_id, content, created_at, remind_at)
               VALUES ($1, $2, $3, $4)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query, s.UserID, s.Content, s.CreatedAt, s.RemindAt).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("error creating short reminder: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) AddFixed(ctx context.Context, f *reminder.Fixed) error {
	query := `INSERT INTO time_reminders (user_id, content, time_of_day, remind_at, created_at)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query, f.UserID, f.Content, f.TimeOfDay, f.RemindAt, f.CreatedAt).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("error creating time reminder: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) ListShort(ctx context.Context) ([]*reminder.Short, error) {
	return r.queryShort(ctx, `SELECT id, user_id, content, created_at, remind_at
               FROM short_reminders ORDER BY remind_at`)
}

func (r *PostgresReminderRepository) ListShortByUser(ctx context.Context, userID int64) ([]*reminder.Short, error) {
	return r.queryShort(ctx, `SELECT id, user_id, content, created_at, remind_at
               FROM short_reminders WHERE user_id = $1 ORDER BY remind_at`, userID)
}

func (r *PostgresReminderRepository) queryShort(ctx context.Context, query string, args ...any) ([]*reminder.Short, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing short reminders: %w", err)
	}
	defer rows.Close()

	reminders := make([]*reminder.Short, 0)
	for rows.Next() {
		s := &reminder.Short{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.Content, &s.CreatedAt, &s.RemindAt); err != nil {
			return nil, fmt.Errorf("error scanning short reminder: %w", err)
		}
		reminders = append(reminders, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating short reminders: %w", err)
	}
	return reminders, nil
}

func (r *PostgresReminderRepository) ListFixed(ctx context.Context) ([]*reminder.Fixed, error) {
	return r.queryFixed(ctx, `SELECT id, user_id, content, time_of_day, remind_at, created_at
               FROM time_reminders ORDER BY remind_at`)
}

func (r *PostgresReminderRepository) ListFixedByUser(ctx context.Context, userID int64) ([]*reminder.Fixed, error) {
	return r.queryFixed(ctx, `SELECT id, user_id, content, time_of_day, remind_at, created_at
               FROM time_reminders WHERE user_id = $1 ORDER BY remind_at`, userID)
}

func (r *PostgresReminderRepository) queryFixed(ctx context.Context, query string, args ...any) ([]*reminder.Fixed, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing time reminders: %w", err)
	}
	defer rows.Close()

	reminders := make([]*reminder.Fixed, 0)
	for rows.Next() {
		f := &reminder.Fixed{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.Content, &f.TimeOfDay, &f.RemindAt, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning time reminder: %w", err)
		}
		reminders = append(reminders, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time reminders: %w", err)
	}
	return reminders, nil
}

func (r *PostgresReminderRepository) DeleteShort(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM short_reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting short reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShortReminderNotFound
	}
	return nil
}

func (r *PostgresReminderRepository) DeleteFixed(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting time reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFixedReminderNotFound
	}
	return nil
}
