package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mwangi/biasharabot/backend/internal/domain/errors"
	"github.com/mwangi/biasharabot/backend/internal/domain/payroll"
)

// Engine walks current cash forward day by day, combining historical daily
// averages with scheduled salary obligations. It holds no mutable state
// beyond its config, so one engine can serve concurrent callers.
type Engine struct {
	cfg Config
}

// NewEngine creates a projection engine with the given policy config
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Project produces a horizonDays-long forecast series starting at startDate.
// Running cash carries across days: day i+1 starts from day i's ending
// balance. Given identical inputs the output is identical; there is no
// hidden randomness.
func (e *Engine) Project(
	currentCash int64,
	dailyIncomeAvg, dailyExpenseAvg decimal.Decimal,
	staff []payroll.StaffObligation,
	horizonDays int,
	startDate time.Time,
) ([]ProjectionPoint, error) {
	if horizonDays <= 0 {
		return nil, errors.NewValidationError("horizonDays must be positive")
	}
	if dailyIncomeAvg.IsNegative() || dailyExpenseAvg.IsNegative() {
		return nil, errors.NewValidationError("daily averages must not be negative")
	}

	lowCashThreshold := dailyExpenseAvg.Mul(decimal.NewFromInt(e.cfg.LowCashBufferDays))
	running := decimal.NewFromInt(currentCash)

	points := make([]ProjectionPoint, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		date := startDate.AddDate(0, 0, i)
		due := payroll.ObligationsDue(staff, date)

		expectedIn := dailyIncomeAvg
		if isWeekend(date) {
			expectedIn = expectedIn.Mul(e.cfg.WeekendMultiplier)
		}
		expectedOut := dailyExpenseAvg.Add(decimal.NewFromInt(due.TotalDue))

		running = running.Add(expectedIn).Sub(expectedOut)

		point := ProjectionPoint{
			Date:          date,
			ExpectedIn:    expectedIn,
			ExpectedOut:   expectedOut,
			ProjectedCash: running,
			SalariesDue:   due.TotalDue,
			Shortfall:     decimal.Zero,
			Confidence:    e.confidenceAt(i),
		}

		switch {
		case running.IsNegative():
			point.Flag = FlagNegative
			point.Shortfall = running.Neg()
		case due.TotalDue > 0:
			point.Flag = FlagSalaryDue
		case running.LessThan(lowCashThreshold):
			point.Flag = FlagLowCash
		}

		points = append(points, point)
	}

	return points, nil
}

// confidenceAt labels a horizon index; confidence only ever decreases as the
// index grows.
func (e *Engine) confidenceAt(dayIndex int) Confidence {
	switch {
	case dayIndex < e.cfg.HighConfidenceDays:
		return High
	case dayIndex < e.cfg.MediumConfidenceDays:
		return Medium
	default:
		return Low
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// FirstProblemDay returns the index of the earliest day flagged negative or
// salary_due, or -1 when there is none. A low-cash day alone is a warning,
// not a problem, for alerting purposes.
func FirstProblemDay(points []ProjectionPoint) int {
	for i, p := range points {
		if p.Flag == FlagNegative || p.Flag == FlagSalaryDue {
			return i
		}
	}
	return -1
}
