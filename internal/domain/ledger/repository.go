package ledger

import (
	"context"
	"time"
)

// Repository defines the interface for transaction data operations
type Repository interface {
	// Create a new transaction record (append-only, no update or delete)
	CreateTransaction(ctx context.Context, record *TransactionRecord) error

	// List an owner's transactions with from <= occurredAt <= to
	ListTransactions(ctx context.Context, ownerID string, from, to time.Time) ([]TransactionRecord, error)
}
