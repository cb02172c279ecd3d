package owner

import (
	"context"
)

// Repository defines the interface for owner data operations
type Repository interface {
	// Create a new owner account
	CreateOwner(ctx context.Context, o *Owner) error

	// Get an owner by ID
	GetOwner(ctx context.Context, ownerID string) (*Owner, error)

	// List every owner account (used by the scheduled brief)
	ListOwners(ctx context.Context) ([]Owner, error)

	// Adjust the cash balance by a signed delta
	AdjustCashBalance(ctx context.Context, ownerID string, delta int64) error
}
