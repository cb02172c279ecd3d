package payroll

import (
	"time"
)

// SalaryType represents how a staff member's pay is scheduled
type SalaryType string

const (
	// Monthly staff are paid a lump sum on a fixed day of the month
	Monthly SalaryType = "monthly"
	// Daily staff are paid per working day as they go
	Daily SalaryType = "daily"
	// Weekly staff are paid per working week as they go
	Weekly SalaryType = "weekly"
)

// IsValid reports whether the salary type is one of the known values
func (t SalaryType) IsValid() bool {
	switch t {
	case Monthly, Daily, Weekly:
		return true
	}
	return false
}

// StaffObligation represents one employee's pay terms. Staff are
// soft-deactivated when they leave, never deleted, so historical salary
// transactions keep a valid reference.
type StaffObligation struct {
	StaffID      string     `json:"staffId"`
	OwnerID      string     `json:"ownerId"`
	Name         string     `json:"name"`
	SalaryAmount int64      `json:"salaryAmount"` // non-negative, minor currency units
	SalaryType   SalaryType `json:"salaryType"`
	// PaymentDay is the day of month salary falls due (1-31). Only meaningful
	// for monthly staff; 0 means unset and defaults to the 1st.
	PaymentDay int `json:"paymentDay,omitempty"`
	// AdvanceBalance is deducted from the next salary payment. It may exceed
	// SalaryAmount; the scheduler floors the resulting due amount at zero.
	AdvanceBalance int64     `json:"advanceBalance"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AmountDue is the salary payable after deducting the outstanding advance,
// floored at zero. The raw (possibly negative) difference stays reportable
// through SalaryAmount and AdvanceBalance.
func (s StaffObligation) AmountDue() int64 {
	due := s.SalaryAmount - s.AdvanceBalance
	if due < 0 {
		return 0
	}
	return due
}
