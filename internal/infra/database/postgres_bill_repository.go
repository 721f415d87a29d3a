package database

import (
	"context"
	"database/sql"
	"fmt"

	"household_reminder_bot/internal/domain/bill"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type PostgresBillRepository struct {
	db *sql.DB
}

func NewPostgresBillRepository(db *sql.DB) *PostgresBillRepository {
	return &PostgresBillRepository{db: db}
}

// Upsert writes a bill record keyed by (bank_name, month_key). A newer
// statement for the same month overwrites the old one (last-writer-wins,
// which also resolves concurrent writes from the ingestion side).
func (r *PostgresBillRepository) Upsert(ctx context.Context, rec *bill.Record) error {
	query := `INSERT INTO bills (bank_name, original_name, amount, due_date, statement_date, month_key, updated_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               ON CONFLICT (bank_name, month_key) DO UPDATE
               SET original_name = EXCLUDED.original_name,
                   amount = EXCLUDED.amount,
                   due_date = EXCLUDED.due_date,
                   statement_date = EXCLUDED.statement_date,
                   updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		rec.BankName, rec.OriginalName, rec.Amount, rec.DueDate, rec.StatementDate, rec.MonthKey, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting bill: %w", err)
	}
	return nil
}

func (r *PostgresBillRepository) GetByBankMonth(ctx context.Context, bankName, monthKey string) (*bill.Record, error) {
	query := `SELECT bank_name, original_name, amount, due_date, statement_date, month_key, updated_at
               FROM bills WHERE bank_name = $1 AND month_key = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, bankName, monthKey))
}

func (r *PostgresBillRepository) LatestByBank(ctx context.Context, bankName string) (*bill.Record, error) {
	query := `SELECT bank_name, original_name, amount, due_date, statement_date, month_key, updated_at
               FROM bills WHERE bank_name = $1 ORDER BY month_key DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, bankName))
}

func (r *PostgresBillRepository) scanOne(row *sql.Row) (*bill.Record, error) {
	rec := &bill.Record{}
	err := row.Scan(&rec.BankName, &rec.OriginalName, &rec.Amount, &rec.DueDate, &rec.StatementDate, &rec.MonthKey, &rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("error getting bill: %w", err)
	}
	return rec, nil
}

func (r *PostgresBillRepository) ListAll(ctx context.Context) ([]*bill.Record, error) {
	query := `SELECT bank_name, original_name, amount, due_date, statement_date, month_key, updated_at
               FROM bills ORDER BY month_key DESC, bank_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing bills: %w", err)
	}
	defer rows.Close()

	records := make([]*bill.Record, 0)
	for rows.Next() {
		rec := &bill.Record{}
		if err := rows.Scan(&rec.BankName, &rec.OriginalName, &rec.Amount, &rec.DueDate, &rec.StatementDate, &rec.MonthKey, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning bill: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bills: %w", err)
	}
	return records, nil
}
