package receivable

import (
	"context"
)

// Repository defines the interface for receivable data operations
type Repository interface {
	// Create a new receivable
	CreateReceivable(ctx context.Context, r *Receivable) error

	// Get a receivable by ID
	GetReceivable(ctx context.Context, ownerID, receivableID string) (*Receivable, error)

	// List an owner's receivables; an empty statuses filter returns all
	ListReceivables(ctx context.Context, ownerID string, statuses ...Status) ([]Receivable, error)

	// Persist a receivable mutated by a payment application
	UpdateReceivable(ctx context.Context, r *Receivable) error
}
