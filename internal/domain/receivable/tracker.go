package receivable

import (
	"time"

	"github.com/mwangi/biasharabot/backend/internal/domain/errors"
)

// Reliability score buckets by days taken to pay in full. The boundaries
// drive the collection-priority ordering shown to the owner.
const (
	reliabilityFastDays = 7
	reliabilityOkDays   = 14

	reliabilityFastScore = 80
	reliabilityOkScore   = 60
	reliabilitySlowScore = 40
)

// PaymentResult is the outcome of applying a payment to a receivable.
// AppliedAmount is the portion actually credited; it is zero when the
// receivable was already paid, and smaller than the payment when the excess
// was discarded by the overpayment policy.
type PaymentResult struct {
	Receivable    Receivable `json:"receivable"`
	AppliedAmount int64      `json:"appliedAmount"`
}

// ApplyPayment applies a payment against a receivable and returns the
// updated value; the caller persists it. Paid is a terminal state: applying
// a payment to a paid receivable is a no-op.
func ApplyPayment(r Receivable, amount int64, now time.Time) (PaymentResult, error) {
	if amount <= 0 {
		return PaymentResult{}, errors.NewValidationError("payment amount must be positive")
	}
	if r.Status == Paid {
		return PaymentResult{Receivable: r}, nil
	}

	previousPaid := r.AmountPaid
	r.AmountPaid = capPaymentToBalance(r.AmountPaid, amount, r.Amount)
	r.UpdatedAt = now

	if r.AmountPaid >= r.Amount {
		r.Status = Paid
		paidAt := now
		r.PaidAt = &paidAt
	} else {
		r.Status = Partial
	}

	return PaymentResult{
		Receivable:    r,
		AppliedAmount: r.AmountPaid - previousPaid,
	}, nil
}

// capPaymentToBalance is the overpayment policy: any payment beyond the
// original amount is discarded rather than carried as a credit. Swapping the
// policy means changing this function only, not its call sites.
func capPaymentToBalance(amountPaid, payment, original int64) int64 {
	newPaid := amountPaid + payment
	if newPaid > original {
		return original
	}
	return newPaid
}

// ReliabilityScore maps days-to-pay onto a coarse three-bucket score used to
// rank payers: 7 days or less scores 80, 14 or less scores 60, slower payers
// score 40.
func ReliabilityScore(daysToPay int) int {
	switch {
	case daysToPay <= reliabilityFastDays:
		return reliabilityFastScore
	case daysToPay <= reliabilityOkDays:
		return reliabilityOkScore
	default:
		return reliabilitySlowScore
	}
}
