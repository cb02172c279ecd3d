package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// Confidence is the qualitative certainty label attached to a forecast day.
// It decays with distance from today and never recovers.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// Flag marks a forecast day that needs the owner's attention. Flags are
// mutually exclusive; precedence is negative > salary_due > low_cash.
type Flag string

const (
	// FlagNone means the day looks fine
	FlagNone Flag = ""
	// FlagNegative means projected cash goes below zero
	FlagNegative Flag = "negative"
	// FlagSalaryDue means one or more salaries fall due
	FlagSalaryDue Flag = "salary_due"
	// FlagLowCash means the cash buffer is thinner than the configured
	// multiple of daily expenses
	FlagLowCash Flag = "low_cash"
)

// ProjectionPoint is one forecast day. The whole series is regenerated on
// every projection run; points are never patched individually.
type ProjectionPoint struct {
	Date          time.Time       `json:"date"`
	ExpectedIn    decimal.Decimal `json:"expectedIn"`
	ExpectedOut   decimal.Decimal `json:"expectedOut"`
	ProjectedCash decimal.Decimal `json:"projectedCash"` // signed, may go negative
	SalariesDue   int64           `json:"salariesDue"`
	// Shortfall is the positive magnitude of the deficit on negative days,
	// zero otherwise. Kept numeric; wording is the presentation layer's job.
	Shortfall  decimal.Decimal `json:"shortfall"`
	Confidence Confidence      `json:"confidence"`
	Flag       Flag            `json:"flag,omitempty"`
}

// Config holds the tunable policy constants of the projection engine.
// They are policy, not law; deployments may override them.
type Config struct {
	// WeekendMultiplier scales expected income on Saturday and Sunday to
	// model order-volume seasonality.
	WeekendMultiplier decimal.Decimal
	// LowCashBufferDays flags a day when projected cash is below this many
	// days of average expenses.
	LowCashBufferDays int64
	// HighConfidenceDays is the number of leading days labeled high
	// confidence; MediumConfidenceDays the cutoff after which days are low.
	HighConfidenceDays   int
	MediumConfidenceDays int
}

// DefaultConfig returns the stock policy: 1.3x weekend income, a three-day
// low-cash buffer, and high/medium confidence for days 0-2 and 3-6.
func DefaultConfig() Config {
	return Config{
		WeekendMultiplier:    decimal.NewFromFloat(1.3),
		LowCashBufferDays:    3,
		HighConfidenceDays:   3,
		MediumConfidenceDays: 7,
	}
}
