package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestObligationsDue(t *testing.T) {
	t.Run("monthly staff fall due on their payment day", func(t *testing.T) {
		staff := []StaffObligation{
			{StaffID: "s1", SalaryType: Monthly, SalaryAmount: 10000, PaymentDay: 5, Active: true},
			{StaffID: "s2", SalaryType: Monthly, SalaryAmount: 8000, PaymentDay: 5, Active: true},
			{StaffID: "s3", SalaryType: Monthly, SalaryAmount: 7000, PaymentDay: 20, Active: true},
		}

		due := ObligationsDue(staff, date(2026, time.March, 5))
		assert.Equal(t, int64(18000), due.TotalDue)
		assert.Len(t, due.PerStaff, 2)

		due = ObligationsDue(staff, date(2026, time.March, 6))
		assert.Equal(t, int64(0), due.TotalDue)
		assert.Empty(t, due.PerStaff)
	})

	t.Run("daily and weekly staff never produce scheduled obligations", func(t *testing.T) {
		staff := []StaffObligation{
			{StaffID: "d1", SalaryType: Daily, SalaryAmount: 500, Active: true},
			{StaffID: "w1", SalaryType: Weekly, SalaryAmount: 3000, PaymentDay: 5, Active: true},
		}

		for d := 1; d <= 31; d++ {
			due := ObligationsDue(staff, date(2026, time.March, d))
			assert.Equal(t, int64(0), due.TotalDue, "day %d", d)
		}
	})

	t.Run("inactive staff are skipped", func(t *testing.T) {
		staff := []StaffObligation{
			{StaffID: "s1", SalaryType: Monthly, SalaryAmount: 10000, PaymentDay: 5, Active: false},
		}
		due := ObligationsDue(staff, date(2026, time.March, 5))
		assert.Equal(t, int64(0), due.TotalDue)
	})

	t.Run("outstanding advance reduces the amount due", func(t *testing.T) {
		staff := []StaffObligation{
			{StaffID: "s1", SalaryType: Monthly, SalaryAmount: 10000, AdvanceBalance: 4000, PaymentDay: 1, Active: true},
		}
		due := ObligationsDue(staff, date(2026, time.March, 1))
		assert.Equal(t, int64(6000), due.TotalDue)
	})

	t.Run("advance above salary floors the due amount at zero", func(t *testing.T) {
		staff := []StaffObligation{
			{StaffID: "s1", SalaryType: Monthly, SalaryAmount: 10000, AdvanceBalance: 12000, PaymentDay: 1, Active: true},
		}
		due := ObligationsDue(staff, date(2026, time.March, 1))
		assert.Equal(t, int64(0), due.TotalDue)
		// The staff member still appears; the zero is reportable
		assert.Len(t, due.PerStaff, 1)
	})

	t.Run("payday past the end of a short month rolls to the last day", func(t *testing.T) {
		staff := []StaffObligation{
			{StaffID: "s1", SalaryType: Monthly, SalaryAmount: 10000, PaymentDay: 31, Active: true},
		}

		// April has 30 days
		due := ObligationsDue(staff, date(2026, time.April, 30))
		assert.Equal(t, int64(10000), due.TotalDue)

		// February 2026 has 28 days
		due = ObligationsDue(staff, date(2026, time.February, 28))
		assert.Equal(t, int64(10000), due.TotalDue)

		// In a 31-day month the 31st is the payday, not the 30th
		due = ObligationsDue(staff, date(2026, time.March, 30))
		assert.Equal(t, int64(0), due.TotalDue)
		due = ObligationsDue(staff, date(2026, time.March, 31))
		assert.Equal(t, int64(10000), due.TotalDue)
	})

	t.Run("unset payment day defaults to the first of the month", func(t *testing.T) {
		staff := []StaffObligation{
			{StaffID: "s1", SalaryType: Monthly, SalaryAmount: 10000, Active: true},
		}
		due := ObligationsDue(staff, date(2026, time.March, 1))
		assert.Equal(t, int64(10000), due.TotalDue)
	})
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(date(2026, time.January, 15)))
	assert.Equal(t, 28, DaysInMonth(date(2026, time.February, 1)))
	assert.Equal(t, 29, DaysInMonth(date(2028, time.February, 1)))
	assert.Equal(t, 30, DaysInMonth(date(2026, time.April, 30)))
}

func TestDaysUntilPayday(t *testing.T) {
	t.Run("payday later this month", func(t *testing.T) {
		assert.Equal(t, 10, DaysUntilPayday(15, date(2026, time.March, 5)))
	})

	t.Run("today is the payday", func(t *testing.T) {
		assert.Equal(t, 0, DaysUntilPayday(15, date(2026, time.March, 15)))
	})

	t.Run("payday already passed rolls into next month", func(t *testing.T) {
		// March 20 -> April 5 is 16 days
		assert.Equal(t, 16, DaysUntilPayday(5, date(2026, time.March, 20)))
	})

	t.Run("clamped payday in a short month", func(t *testing.T) {
		// Payday 31 in April behaves as the 30th
		assert.Equal(t, 1, DaysUntilPayday(31, date(2026, time.April, 29)))
	})
}
