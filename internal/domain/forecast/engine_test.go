package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwangi/biasharabot/backend/internal/domain/payroll"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestProject(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("running cash carries across days and months", func(t *testing.T) {
		// Wednesday Jan 28; the horizon crosses a weekend and a month boundary
		start := date(2026, time.January, 28)
		staff := []payroll.StaffObligation{
			{StaffID: "s1", SalaryType: payroll.Monthly, SalaryAmount: 10000, PaymentDay: 1, Active: true},
		}

		points, err := engine.Project(28500, decimal.NewFromInt(4500), decimal.NewFromInt(1200), staff, 5, start)
		require.NoError(t, err)
		require.Len(t, points, 5)

		wantCash := []int64{31800, 35100, 38400, 43050, 37700}
		for i, want := range wantCash {
			assert.True(t, points[i].ProjectedCash.Equal(decimal.NewFromInt(want)),
				"day %d: want %d, got %s", i, want, points[i].ProjectedCash)
		}

		// Saturday Jan 31 gets the weekend multiplier
		assert.True(t, points[3].ExpectedIn.Equal(decimal.NewFromInt(5850)),
			"got %s", points[3].ExpectedIn)
		// Weekday income is the plain average
		assert.True(t, points[0].ExpectedIn.Equal(decimal.NewFromInt(4500)))

		// Salary falls due on Feb 1, the clamped payday
		assert.Equal(t, int64(10000), points[4].SalariesDue)
		assert.Equal(t, FlagSalaryDue, points[4].Flag)
		assert.Equal(t, 4, FirstProblemDay(points))
	})

	t.Run("negative outranks salary due", func(t *testing.T) {
		start := date(2026, time.March, 2) // a Monday, payday for this staff
		staff := []payroll.StaffObligation{
			{StaffID: "s1", SalaryType: payroll.Monthly, SalaryAmount: 5000, PaymentDay: 2, Active: true},
		}

		points, err := engine.Project(1000, decimal.Zero, decimal.NewFromInt(100), staff, 1, start)
		require.NoError(t, err)

		// 1000 - (100 + 5000) = -4100: both conditions hold, negative wins
		assert.Equal(t, FlagNegative, points[0].Flag)
		assert.True(t, points[0].Shortfall.Equal(decimal.NewFromInt(4100)),
			"got %s", points[0].Shortfall)
	})

	t.Run("low cash flags below the buffer threshold, exclusive", func(t *testing.T) {
		// Threshold is 3 days x 1000 = 3000. Start Monday to avoid the
		// weekend multiplier muddying the arithmetic.
		start := date(2026, time.March, 2)
		points, err := engine.Project(4000, decimal.Zero, decimal.NewFromInt(1000), nil, 3, start)
		require.NoError(t, err)

		// Day 0 lands exactly on the threshold: not flagged
		assert.True(t, points[0].ProjectedCash.Equal(decimal.NewFromInt(3000)))
		assert.Equal(t, FlagNone, points[0].Flag)

		// Days 1 and 2 are below it
		assert.Equal(t, FlagLowCash, points[1].Flag)
		assert.Equal(t, FlagLowCash, points[2].Flag)

		// A low-cash day alone is not a problem day
		assert.Equal(t, -1, FirstProblemDay(points))
	})

	t.Run("shortfall is zero on non-negative days", func(t *testing.T) {
		points, err := engine.Project(100000, decimal.NewFromInt(500), decimal.NewFromInt(200), nil, 7, date(2026, time.March, 2))
		require.NoError(t, err)
		for i, p := range points {
			assert.True(t, p.Shortfall.IsZero(), "day %d", i)
		}
	})

	t.Run("confidence decays with the horizon and never recovers", func(t *testing.T) {
		points, err := engine.Project(100000, decimal.NewFromInt(500), decimal.NewFromInt(200), nil, 10, date(2026, time.March, 2))
		require.NoError(t, err)

		want := []Confidence{High, High, High, Medium, Medium, Medium, Medium, Low, Low, Low}
		for i, p := range points {
			assert.Equal(t, want[i], p.Confidence, "day %d", i)
		}
	})

	t.Run("identical inputs produce identical output", func(t *testing.T) {
		staff := []payroll.StaffObligation{
			{StaffID: "s1", SalaryType: payroll.Monthly, SalaryAmount: 7000, PaymentDay: 15, Active: true},
		}
		first, err := engine.Project(25000, decimal.NewFromInt(900), decimal.NewFromInt(400), staff, 14, date(2026, time.March, 10))
		require.NoError(t, err)
		second, err := engine.Project(25000, decimal.NewFromInt(900), decimal.NewFromInt(400), staff, 14, date(2026, time.March, 10))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		_, err := engine.Project(1000, decimal.Zero, decimal.Zero, nil, 0, date(2026, time.March, 2))
		assert.Error(t, err)

		_, err = engine.Project(1000, decimal.NewFromInt(-1), decimal.Zero, nil, 7, date(2026, time.March, 2))
		assert.Error(t, err)
	})
}

func TestProjectCustomConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WeekendMultiplier = decimal.NewFromInt(2)
	engine := NewEngine(cfg)

	// Saturday
	points, err := engine.Project(10000, decimal.NewFromInt(1000), decimal.Zero, nil, 1, date(2026, time.March, 7))
	require.NoError(t, err)
	assert.True(t, points[0].ExpectedIn.Equal(decimal.NewFromInt(2000)),
		"got %s", points[0].ExpectedIn)
}
