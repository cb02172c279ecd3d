package health

import (
	"github.com/shopspring/decimal"

	"github.com/mwangi/biasharabot/backend/internal/domain/receivable"
)

// Status is the categorical band for a composite health score
type Status string

const (
	Excellent Status = "excellent" // score >= 80
	Good      Status = "good"      // score >= 60
	Caution   Status = "caution"   // score >= 40
	Critical  Status = "critical"  // everything below
)

// Sub-score weights. They must sum to exactly 1.0; the test suite asserts it.
const (
	WeightCashRunway      = 0.25
	WeightProfitMargin    = 0.25
	WeightCollectionSpeed = 0.15
	WeightExpenseControl  = 0.15
	WeightGrowthTrend     = 0.20
)

// Component is one normalized sub-score plus the literal metric behind it
// (days for runway and collection, percent for margin and growth, a ratio
// for expense control).
type Component struct {
	Score  int     `json:"score"` // 0-100
	Metric float64 `json:"metric"`
}

// Result is the composite health score with its five weighted components
type Result struct {
	Score           int       `json:"score"` // 0-100
	Status          Status    `json:"status"`
	CashRunway      Component `json:"cashRunway"`
	ProfitMargin    Component `json:"profitMargin"`
	CollectionSpeed Component `json:"collectionSpeed"`
	ExpenseControl  Component `json:"expenseControl"`
	GrowthTrend     Component `json:"growthTrend"`
}

// Snapshot is the frozen read of an owner's books that scoring consumes.
// It lists exactly the fields the calculator needs; the caller assembles it
// from the persistence layer and the calculator never reads anything else.
type Snapshot struct {
	CurrentCash int64
	// DailyExpense is the current month's average daily outflow
	DailyExpense decimal.Decimal

	ThisMonthIncome  int64
	ThisMonthExpense int64
	LastMonthIncome  int64
	LastMonthExpense int64

	Receivables []receivable.Receivable
}
