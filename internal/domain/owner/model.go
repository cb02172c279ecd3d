package owner

import (
	"time"
)

// Owner is the business account being advised. It is the tenant boundary:
// every transaction, staff record, and receivable belongs to exactly one
// owner and nothing is shared across accounts.
type Owner struct {
	OwnerID      string    `json:"ownerId"`
	BusinessName string    `json:"businessName"`
	Phone        string    `json:"phone"` // chat-channel identity, E.164
	Currency     string    `json:"currency"`
	CashBalance  int64     `json:"cashBalance"` // minor currency units, signed
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OwnerContext carries the authenticated owner identity through a request
type OwnerContext struct {
	OwnerID string
	Subject string // token subject, the Cognito user ID
	Phone   string
}
