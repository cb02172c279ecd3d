package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	ulid "github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/mwangi/biasharabot/backend/internal/domain/errors"
	"github.com/mwangi/biasharabot/backend/internal/domain/forecast"
	"github.com/mwangi/biasharabot/backend/internal/domain/health"
	"github.com/mwangi/biasharabot/backend/internal/domain/ledger"
	"github.com/mwangi/biasharabot/backend/internal/domain/owner"
	"github.com/mwangi/biasharabot/backend/internal/domain/payroll"
	"github.com/mwangi/biasharabot/backend/internal/domain/receivable"
)

const (
	// DefaultWindowDays is the trailing window the daily averages are
	// computed over
	DefaultWindowDays = 30
	// DefaultHorizonDays is the forecast length when the caller does not ask
	// for one
	DefaultHorizonDays = 7
	// MaxHorizonDays bounds how far ahead a forecast may reach
	MaxHorizonDays = 30
)

// CollectionCategory tags income transactions created by receivable payments
const CollectionCategory = "collection"

// Service wires the pure projection and scoring engines to the persistence
// layer. Every operation reads a frozen snapshot of one owner's data, runs
// the engines over it, and hands mutations back to the repositories.
type Service struct {
	owners       owner.Repository
	transactions ledger.Repository
	staff        payroll.Repository
	receivables  receivable.Repository
	engine       *forecast.Engine
	logger       *slog.Logger
	now          func() time.Time
}

// NewService creates a new advisor service
func NewService(
	owners owner.Repository,
	transactions ledger.Repository,
	staff payroll.Repository,
	receivables receivable.Repository,
	engine *forecast.Engine,
	logger *slog.Logger,
) *Service {
	return &Service{
		owners:       owners,
		transactions: transactions,
		staff:        staff,
		receivables:  receivables,
		engine:       engine,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the service clock. Tests use it to pin dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Forecast builds the day-by-day cash projection for one owner
func (s *Service) Forecast(ctx context.Context, ownerID string, horizonDays int) (*ForecastReport, error) {
	if horizonDays <= 0 {
		return nil, errors.NewValidationError("horizonDays must be positive")
	}
	if horizonDays > MaxHorizonDays {
		return nil, errors.NewValidationError(fmt.Sprintf("horizonDays must not exceed %d", MaxHorizonDays))
	}

	o, err := s.owners.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	txns, err := s.transactions.ListTransactions(ctx, ownerID, now.AddDate(0, 0, -DefaultWindowDays), now)
	if err != nil {
		return nil, err
	}

	summary, err := ledger.Aggregate(txns, DefaultWindowDays, now)
	if err != nil {
		return nil, err
	}

	staffList, err := s.staff.ListStaff(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}

	points, err := s.engine.Project(
		o.CashBalance,
		summary.DailyIncomeAvg,
		summary.DailyExpenseAvg,
		staffList,
		horizonDays,
		now,
	)
	if err != nil {
		return nil, err
	}

	return &ForecastReport{
		OwnerID:         ownerID,
		GeneratedAt:     now,
		CurrentCash:     o.CashBalance,
		WindowDays:      DefaultWindowDays,
		DailyIncomeAvg:  summary.DailyIncomeAvg,
		DailyExpenseAvg: summary.DailyExpenseAvg,
		Points:          points,
		FirstProblemDay: forecast.FirstProblemDay(points),
		NextPayday:      nextPayday(staffList, now),
	}, nil
}

// nextPayday finds the monthly staff member whose salary falls due soonest.
// Uses the actual days in the current month, not an approximation, since
// this number is surfaced to the owner directly.
func nextPayday(staff []payroll.StaffObligation, now time.Time) *PaydayAlert {
	var alert *PaydayAlert
	for _, st := range staff {
		if !st.Active || st.SalaryType != payroll.Monthly {
			continue
		}
		inDays := payroll.DaysUntilPayday(st.PaymentDay, now)
		if alert == nil || inDays < alert.InDays {
			alert = &PaydayAlert{
				StaffID:   st.StaffID,
				Name:      st.Name,
				InDays:    inDays,
				AmountDue: st.AmountDue(),
			}
		}
	}
	return alert
}

// Health computes the composite health score for one owner
func (s *Service) Health(ctx context.Context, ownerID string) (*health.Result, error) {
	o, err := s.owners.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	txns, err := s.transactions.ListTransactions(ctx, ownerID, lastMonthStart, now)
	if err != nil {
		return nil, err
	}

	thisMonth := ledger.SummarizeRange(txns, monthStart, monthStart.AddDate(0, 1, 0))
	lastMonth := ledger.SummarizeRange(txns, lastMonthStart, monthStart)

	// Average over the days elapsed so far, so a fresh month does not read
	// as a sudden drop in burn rate.
	daysIntoMonth := now.Day()
	dailyExpense := decimal.NewFromInt(thisMonth.Expense).Div(decimal.NewFromInt(int64(daysIntoMonth)))

	receivables, err := s.receivables.ListReceivables(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := health.Score(health.Snapshot{
		CurrentCash:      o.CashBalance,
		DailyExpense:     dailyExpense,
		ThisMonthIncome:  thisMonth.Income,
		ThisMonthExpense: thisMonth.Expense,
		LastMonthIncome:  lastMonth.Income,
		LastMonthExpense: lastMonth.Expense,
		Receivables:      receivables,
	})
	return &result, nil
}

// RecordPayment applies a customer payment to a receivable, persists the
// updated receivable, logs the collection as income, and bumps the cash
// balance by the amount actually credited.
func (s *Service) RecordPayment(ctx context.Context, ownerID, receivableID string, amount int64) (*receivable.PaymentResult, error) {
	r, err := s.receivables.GetReceivable(ctx, ownerID, receivableID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result, err := receivable.ApplyPayment(*r, amount, now)
	if err != nil {
		return nil, err
	}
	if result.AppliedAmount == 0 {
		// Terminal no-op: the receivable was already settled
		return &result, nil
	}

	if err := s.receivables.UpdateReceivable(ctx, &result.Receivable); err != nil {
		return nil, err
	}

	record := &ledger.TransactionRecord{
		TransactionID: ulid.Make().String(),
		OwnerID:       ownerID,
		Kind:          ledger.KindIncome,
		Amount:        result.AppliedAmount,
		Category:      CollectionCategory,
		CustomerID:    r.CustomerID,
		OccurredAt:    now,
		CreatedAt:     now,
	}
	if err := s.transactions.CreateTransaction(ctx, record); err != nil {
		return nil, err
	}

	if err := s.owners.AdjustCashBalance(ctx, ownerID, result.AppliedAmount); err != nil {
		return nil, err
	}

	return &result, nil
}

// LogTransaction appends one already-parsed transaction to the owner's
// ledger and applies its side effects: cash balance movement, and advance
// bookkeeping for salary and advance payments.
func (s *Service) LogTransaction(ctx context.Context, ownerID string, req *ledger.CreateTransactionRequest) (*ledger.TransactionRecord, error) {
	if !req.Kind.IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown transaction kind %q", req.Kind))
	}
	if req.Amount < 0 {
		return nil, errors.NewValidationError("amount must not be negative")
	}

	now := s.now()
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	record := &ledger.TransactionRecord{
		TransactionID: ulid.Make().String(),
		OwnerID:       ownerID,
		Kind:          req.Kind,
		Amount:        req.Amount,
		Category:      req.Category,
		StaffID:       req.StaffID,
		CustomerID:    req.CustomerID,
		OccurredAt:    occurredAt,
		CreatedAt:     now,
	}
	if err := s.transactions.CreateTransaction(ctx, record); err != nil {
		return nil, err
	}

	delta := record.Amount
	if record.Kind.IsOutflow() {
		delta = -delta
	}
	if err := s.owners.AdjustCashBalance(ctx, ownerID, delta); err != nil {
		return nil, err
	}

	if record.StaffID != "" {
		if err := s.applyStaffSideEffects(ctx, ownerID, record); err != nil {
			return nil, err
		}
	}

	return record, nil
}

// applyStaffSideEffects keeps the advance ledger consistent with salary
// activity: paying salary settles the advance, giving an advance grows it.
func (s *Service) applyStaffSideEffects(ctx context.Context, ownerID string, record *ledger.TransactionRecord) error {
	switch record.Kind {
	case ledger.KindSalary:
		return s.staff.SetAdvanceBalance(ctx, ownerID, record.StaffID, 0)
	case ledger.KindAdvance:
		st, err := s.staff.GetStaff(ctx, ownerID, record.StaffID)
		if err != nil {
			return err
		}
		return s.staff.SetAdvanceBalance(ctx, ownerID, record.StaffID, st.AdvanceBalance+record.Amount)
	}
	return nil
}

// PendingReceivables lists uncollected receivables in collection-priority
// order: worst reliability bucket first, oldest debt first within a bucket.
func (s *Service) PendingReceivables(ctx context.Context, ownerID string) ([]receivable.Receivable, error) {
	open, err := s.receivables.ListReceivables(ctx, ownerID, receivable.Pending, receivable.Partial)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sort.SliceStable(open, func(i, j int) bool {
		si := receivable.ReliabilityScore(open[i].DaysOutstanding(now))
		sj := receivable.ReliabilityScore(open[j].DaysOutstanding(now))
		if si != sj {
			return si < sj
		}
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})
	return open, nil
}

// RefreshAll recomputes forecast and health for every owner. One owner's
// failure is logged and counted but never stops the batch.
func (s *Service) RefreshAll(ctx context.Context, horizonDays int) (*RefreshSummary, error) {
	owners, err := s.owners.ListOwners(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RefreshSummary{Owners: len(owners)}
	for _, o := range owners {
		report, err := s.Forecast(ctx, o.OwnerID, horizonDays)
		if err != nil {
			s.logger.Error("forecast refresh failed", "ownerId", o.OwnerID, "error", err)
			summary.Failed++
			continue
		}
		score, err := s.Health(ctx, o.OwnerID)
		if err != nil {
			s.logger.Error("health refresh failed", "ownerId", o.OwnerID, "error", err)
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Briefs = append(summary.Briefs, OwnerBrief{
			OwnerID:         o.OwnerID,
			Score:           score.Score,
			Status:          score.Status,
			FirstProblemDay: report.FirstProblemDay,
		})
	}
	return summary, nil
}
