package payroll

import (
	"time"
)

// DueItem is one staff member's obligation on a given date
type DueItem struct {
	StaffID   string `json:"staffId"`
	AmountDue int64  `json:"amountDue"`
}

// DueSummary lists the obligations that fall due on a single calendar date
type DueSummary struct {
	TotalDue int64     `json:"totalDue"`
	PerStaff []DueItem `json:"perStaff,omitempty"`
}

// ObligationsDue computes which salary obligations fall due on date.
//
// Only monthly staff produce discrete obligations. Daily and weekly wages are
// paid as the owner goes and reach the cash forecast through the historical
// daily-expense average instead of as scheduled events.
func ObligationsDue(staff []StaffObligation, date time.Time) DueSummary {
	var summary DueSummary
	for _, s := range staff {
		if !s.Active || s.SalaryType != Monthly {
			continue
		}
		if date.Day() != effectivePaymentDay(s.PaymentDay, date) {
			continue
		}
		due := s.AmountDue()
		summary.TotalDue += due
		summary.PerStaff = append(summary.PerStaff, DueItem{
			StaffID:   s.StaffID,
			AmountDue: due,
		})
	}
	return summary
}

// effectivePaymentDay clamps a payment day into the month containing date.
// A payday of 31 rolls to the 30th in a 30-day month, the 28th/29th in
// February. An unset (zero) payday defaults to the 1st.
func effectivePaymentDay(paymentDay int, date time.Time) int {
	if paymentDay <= 0 {
		paymentDay = 1
	}
	if last := DaysInMonth(date); paymentDay > last {
		return last
	}
	return paymentDay
}

// DaysInMonth returns the number of calendar days in t's month
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// DaysUntilPayday returns how many days from today until the given payment
// day next falls due, using the actual length of the current month.
// Returns 0 when today is the payday.
func DaysUntilPayday(paymentDay int, today time.Time) int {
	day := effectivePaymentDay(paymentDay, today)
	if day >= today.Day() {
		return day - today.Day()
	}
	return DaysInMonth(today) - today.Day() + day
}
