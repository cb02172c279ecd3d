package receivable

import (
	"time"
)

// Status represents the collection state of a receivable
type Status string

const (
	// Pending means nothing has been collected yet
	Pending Status = "pending"
	// Partial means some but not all of the amount has been collected
	Partial Status = "partial"
	// Paid is the terminal state; a paid receivable never changes again
	Paid Status = "paid"
)

// Receivable is money owed to the owner by a customer, tracked from creation
// to full collection.
type Receivable struct {
	ReceivableID string     `json:"receivableId"`
	OwnerID      string     `json:"ownerId"`
	CustomerID   string     `json:"customerId,omitempty"`
	Amount       int64      `json:"amount"`     // original amount owed
	AmountPaid   int64      `json:"amountPaid"` // cumulative, never exceeds Amount
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Remaining is the uncollected balance
func (r Receivable) Remaining() int64 {
	return r.Amount - r.AmountPaid
}

// DaysToPay is the number of whole days between creation and full payment.
// Zero until the receivable is paid.
func (r Receivable) DaysToPay() int {
	if r.PaidAt == nil {
		return 0
	}
	return int(r.PaidAt.Sub(r.CreatedAt).Hours() / 24)
}

// DaysOutstanding is the number of whole days the receivable has been open
// as of now. Used to order the collection priority list.
func (r Receivable) DaysOutstanding(now time.Time) int {
	return int(now.Sub(r.CreatedAt).Hours() / 24)
}
