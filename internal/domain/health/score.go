package health

import (
	"math"

	"github.com/mwangi/biasharabot/backend/internal/domain/receivable"
)

const (
	// runwayFallbackDays stands in when there is no expense history yet
	runwayFallbackDays = 30
	// collectionFallbackDays stands in when no receivable has been paid yet
	collectionFallbackDays = 15

	// A 30-day runway or a 0-day collection cycle scores 100
	perDayPoints = 3.33
	// A 40% profit margin scores 100
	marginPoints = 2.5
	// Growth is centered at a neutral 50: flat month-over-month income is
	// neither good nor bad. The only sub-score with a non-zero baseline.
	growthBaseline  = 50
	growthPerPoint  = 2
	statusExcellent = 80
	statusGood      = 60
	statusCaution   = 40
)

// Score computes the composite 0-100 health score from a snapshot. Pure
// function: numeric degeneracies (zero income, zero expense history, no
// receivables) fall back to documented defaults and never fail.
func Score(snap Snapshot) Result {
	runway := cashRunway(snap)
	margin := profitMargin(snap)
	collection := collectionSpeed(snap.Receivables)
	expense := expenseControl(snap)
	growth := growthTrend(snap)

	weighted := float64(runway.Score)*WeightCashRunway +
		float64(margin.Score)*WeightProfitMargin +
		float64(collection.Score)*WeightCollectionSpeed +
		float64(expense.Score)*WeightExpenseControl +
		float64(growth.Score)*WeightGrowthTrend

	score := int(math.Round(weighted))

	return Result{
		Score:           score,
		Status:          statusFor(score),
		CashRunway:      runway,
		ProfitMargin:    margin,
		CollectionSpeed: collection,
		ExpenseControl:  expense,
		GrowthTrend:     growth,
	}
}

// statusFor maps a score onto its band; boundaries are inclusive on the
// lower bound of each band.
func statusFor(score int) Status {
	switch {
	case score >= statusExcellent:
		return Excellent
	case score >= statusGood:
		return Good
	case score >= statusCaution:
		return Caution
	default:
		return Critical
	}
}

// cashRunway scores how many days current cash lasts at this month's
// expense rate. 30 days or more scores 100.
func cashRunway(snap Snapshot) Component {
	runwayDays := float64(runwayFallbackDays)
	if snap.DailyExpense.IsPositive() {
		runwayDays = math.Floor(float64(snap.CurrentCash) / snap.DailyExpense.InexactFloat64())
	}
	return Component{
		Score:  clampScore(runwayDays * perDayPoints),
		Metric: runwayDays,
	}
}

// profitMargin scores this month's margin percentage. 40% or better scores
// 100; zero income scores zero.
func profitMargin(snap Snapshot) Component {
	margin := 0.0
	if snap.ThisMonthIncome > 0 {
		margin = float64(snap.ThisMonthIncome-snap.ThisMonthExpense) / float64(snap.ThisMonthIncome) * 100
	}
	return Component{
		Score:  clampScore(margin * marginPoints),
		Metric: margin,
	}
}

// collectionSpeed scores the average days customers take to pay in full.
// Same-day collection scores 100; 30 days scores 0.
func collectionSpeed(receivables []receivable.Receivable) Component {
	totalDays := 0
	paid := 0
	for _, r := range receivables {
		if r.Status != receivable.Paid {
			continue
		}
		totalDays += r.DaysToPay()
		paid++
	}

	avgDays := float64(collectionFallbackDays)
	if paid > 0 {
		avgDays = float64(totalDays) / float64(paid)
	}
	return Component{
		Score:  clampScore(100 - avgDays*perDayPoints),
		Metric: avgDays,
	}
}

// expenseControl scores this month's spend against last month's. Holding
// steady scores 100; each percent of growth costs a point. A month with no
// prior expense history counts as holding steady.
func expenseControl(snap Snapshot) Component {
	ratio := 1.0
	if snap.LastMonthExpense > 0 {
		ratio = float64(snap.ThisMonthExpense) / float64(snap.LastMonthExpense)
	}
	return Component{
		Score:  clampScore(100 - (ratio-1)*100),
		Metric: ratio,
	}
}

// growthTrend scores month-over-month income growth around the neutral
// baseline of 50. Zero last-month income reads as flat, not as a failure.
func growthTrend(snap Snapshot) Component {
	growth := 0.0
	if snap.LastMonthIncome > 0 {
		growth = float64(snap.ThisMonthIncome-snap.LastMonthIncome) / float64(snap.LastMonthIncome) * 100
	}
	return Component{
		Score:  clampScore(growthBaseline + growth*growthPerPoint),
		Metric: growth,
	}
}

// clampScore bounds a raw sub-score into [0,100] inclusive and rounds to
// the nearest integer.
func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}
