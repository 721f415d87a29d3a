package bill

import "context"

// Repository defines persistence for bill records. The bill-ingestion
// collaborator writes concurrently with the scheduler's reads; upsert
// collisions on (bank, month) resolve last-writer-wins.
type Repository interface {
	Upsert(ctx context.Context, r *Record) error
	GetByBankMonth(ctx context.Context, bankName, monthKey string) (*Record, error)
	// LatestByBank returns the record with the newest month key for a bank.
	LatestByBank(ctx context.Context, bankName string) (*Record, error)
	ListAll(ctx context.Context) ([]*Record, error)
}
