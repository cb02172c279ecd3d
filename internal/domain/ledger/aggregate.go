package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mwangi/biasharabot/backend/internal/domain/errors"
)

// dayKey formats a timestamp as the YYYY-MM-DD bucket key
const dayKeyFormat = "2006-01-02"

// Summary is the reduction of a time-bounded slice of the ledger into the
// rates and buckets the projection and scoring engines read.
type Summary struct {
	WindowDays int       `json:"windowDays"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`

	TotalIncome  int64 `json:"totalIncome"`
	TotalOutflow int64 `json:"totalOutflow"` // expense + salary + advance

	// Daily averages divide by the full window, not by days with activity.
	// Idle days count, so the average reflects real burn rate.
	DailyIncomeAvg  decimal.Decimal `json:"dailyIncomeAvg"`
	DailyExpenseAvg decimal.Decimal `json:"dailyExpenseAvg"`

	ExpenseByCategory map[string]int64 `json:"expenseByCategory"`
	IncomeByDay       map[string]int64 `json:"incomeByDay"`
	OutflowByDay      map[string]int64 `json:"outflowByDay"`
}

// Aggregate reduces the transactions that occurred in the windowDays leading
// up to asOf. It is a pure function of its inputs and never mutates them.
func Aggregate(transactions []TransactionRecord, windowDays int, asOf time.Time) (*Summary, error) {
	if windowDays <= 0 {
		return nil, errors.NewValidationError("windowDays must be positive")
	}

	from := asOf.AddDate(0, 0, -windowDays)
	summary := &Summary{
		WindowDays:        windowDays,
		From:              from,
		To:                asOf,
		ExpenseByCategory: make(map[string]int64),
		IncomeByDay:       make(map[string]int64),
		OutflowByDay:      make(map[string]int64),
	}

	for _, txn := range transactions {
		if txn.OccurredAt.Before(from) || txn.OccurredAt.After(asOf) {
			continue
		}
		day := txn.OccurredAt.Format(dayKeyFormat)

		switch {
		case txn.Kind == KindIncome:
			summary.TotalIncome += txn.Amount
			summary.IncomeByDay[day] += txn.Amount
		case txn.Kind.IsOutflow():
			summary.TotalOutflow += txn.Amount
			summary.OutflowByDay[day] += txn.Amount

			category := txn.Category
			if category == "" {
				category = DefaultCategory
			}
			summary.ExpenseByCategory[category] += txn.Amount
		}
	}

	days := decimal.NewFromInt(int64(windowDays))
	summary.DailyIncomeAvg = decimal.NewFromInt(summary.TotalIncome).Div(days)
	summary.DailyExpenseAvg = decimal.NewFromInt(summary.TotalOutflow).Div(days)

	return summary, nil
}

// RangeTotals holds income and outflow sums for an arbitrary date range
type RangeTotals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

// SummarizeRange sums income and outflow for transactions with
// from <= occurredAt < to. Used for month-over-month comparisons.
func SummarizeRange(transactions []TransactionRecord, from, to time.Time) RangeTotals {
	var totals RangeTotals
	for _, txn := range transactions {
		if txn.OccurredAt.Before(from) || !txn.OccurredAt.Before(to) {
			continue
		}
		switch {
		case txn.Kind == KindIncome:
			totals.Income += txn.Amount
		case txn.Kind.IsOutflow():
			totals.Expense += txn.Amount
		}
	}
	return totals
}
