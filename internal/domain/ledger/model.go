package ledger

import (
	"time"
)

// Kind classifies a transaction in the owner's ledger
type Kind string

const (
	// KindIncome represents money coming into the business
	KindIncome Kind = "income"
	// KindExpense represents a general business expense
	KindExpense Kind = "expense"
	// KindSalary represents a salary payment to a staff member
	KindSalary Kind = "salary"
	// KindAdvance represents a salary advance given to a staff member
	KindAdvance Kind = "advance"
)

// DefaultCategory is the bucket for expenses logged without a category
const DefaultCategory = "other"

// IsValid reports whether the kind is one of the known transaction kinds
func (k Kind) IsValid() bool {
	switch k {
	case KindIncome, KindExpense, KindSalary, KindAdvance:
		return true
	}
	return false
}

// IsOutflow reports whether the kind moves money out of the business.
// Salary and advance payments count as outflow alongside plain expenses.
func (k Kind) IsOutflow() bool {
	switch k {
	case KindExpense, KindSalary, KindAdvance:
		return true
	}
	return false
}

// TransactionRecord is one immutable fact in the append-only ledger.
// Records are never mutated or deleted after creation.
type TransactionRecord struct {
	TransactionID string    `json:"transactionId"`
	OwnerID       string    `json:"ownerId"`
	Kind          Kind      `json:"kind"`
	Amount        int64     `json:"amount"` // non-negative, minor currency units
	Category      string    `json:"category,omitempty"`
	StaffID       string    `json:"staffId,omitempty"`
	CustomerID    string    `json:"customerId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateTransactionRequest represents the data needed to log a transaction.
// The fields arrive already structured; parsing free text is upstream's job.
type CreateTransactionRequest struct {
	Kind       Kind      `json:"kind"`
	Amount     int64     `json:"amount"`
	Category   string    `json:"category,omitempty"`
	StaffID    string    `json:"staffId,omitempty"`
	CustomerID string    `json:"customerId,omitempty"`
	OccurredAt time.Time `json:"occurredAt,omitzero"`
}
