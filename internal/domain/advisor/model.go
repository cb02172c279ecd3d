package advisor

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mwangi/biasharabot/backend/internal/domain/forecast"
	"github.com/mwangi/biasharabot/backend/internal/domain/health"
)

// ForecastReport is the full forward-looking view handed to the
// presentation layer: the projection series plus the aggregates it was
// built from and the first day that needs attention.
type ForecastReport struct {
	OwnerID         string                     `json:"ownerId"`
	GeneratedAt     time.Time                  `json:"generatedAt"`
	CurrentCash     int64                      `json:"currentCash"`
	WindowDays      int                        `json:"windowDays"`
	DailyIncomeAvg  decimal.Decimal            `json:"dailyIncomeAvg"`
	DailyExpenseAvg decimal.Decimal            `json:"dailyExpenseAvg"`
	Points          []forecast.ProjectionPoint `json:"points"`
	// FirstProblemDay is the index of the earliest negative or salary_due
	// day, -1 when the horizon is clear
	FirstProblemDay int          `json:"firstProblemDay"`
	NextPayday      *PaydayAlert `json:"nextPayday,omitempty"`
}

// PaydayAlert describes the nearest upcoming monthly salary obligation
type PaydayAlert struct {
	StaffID   string `json:"staffId"`
	Name      string `json:"name"`
	InDays    int    `json:"inDays"`
	AmountDue int64  `json:"amountDue"`
}

// OwnerBrief is one owner's refreshed standing, produced by the scheduled
// batch run
type OwnerBrief struct {
	OwnerID         string        `json:"ownerId"`
	Score           int           `json:"score"`
	Status          health.Status `json:"status"`
	FirstProblemDay int           `json:"firstProblemDay"`
}

// RefreshSummary reports the outcome of a batch refresh across all owners
type RefreshSummary struct {
	Owners    int          `json:"owners"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Briefs    []OwnerBrief `json:"briefs,omitempty"`
}
