package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresEventRepository persists the scheduler's last-fired date stamps
// so a restart cannot re-fire a date-keyed event on the same day.
type PostgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// LastFired returns the YYYY-MM-DD stamp for an event key, or "" when the
// event has never fired.
func (r *PostgresEventRepository) LastFired(ctx context.Context, key string) (string, error) {
	var date string
	err := r.db.QueryRowContext(ctx,
		`SELECT fired_date FROM fired_events WHERE event_key = $1`, key).Scan(&date)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("error reading fired stamp for %s: %w", key, err)
	}
	return date, nil
}

func (r *PostgresEventRepository) SetLastFired(ctx context.Context, key, date string) error {
	query := `INSERT INTO fired_events (event_key, fired_date)
               VALUES ($1, $2)
               ON CONFLICT (event_key) DO UPDATE SET fired_date = EXCLUDED.fired_date`
	if _, err := r.db.ExecContext(ctx, query, key, date); err != nil {
		return fmt.Errorf("error writing fired stamp for %s: %w", key, err)
	}
	return nil
}

// ClearLastFired forgets an event's stamp, letting it fire again today.
// Used when the user moves a digest time.
func (r *PostgresEventRepository) ClearLastFired(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fired_events WHERE event_key = $1`, key); err != nil {
		return fmt.Errorf("error clearing fired stamp for %s: %w", key, err)
	}
	return nil
}
