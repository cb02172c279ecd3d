package payroll

import (
	"context"
)

// Repository defines the interface for staff data operations
type Repository interface {
	// Create a new staff record
	CreateStaff(ctx context.Context, staff *StaffObligation) error

	// Get a staff record by ID
	GetStaff(ctx context.Context, ownerID, staffID string) (*StaffObligation, error)

	// List an owner's staff, optionally restricted to active staff
	ListStaff(ctx context.Context, ownerID string, activeOnly bool) ([]StaffObligation, error)

	// Set the outstanding advance balance (reset to zero on salary payment,
	// incremented when an advance is given)
	SetAdvanceBalance(ctx context.Context, ownerID, staffID string, balance int64) error

	// Soft-deactivate a staff member who has left
	DeactivateStaff(ctx context.Context, ownerID, staffID string) error
}
