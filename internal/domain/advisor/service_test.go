package advisor

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwangi/biasharabot/backend/internal/domain/errors"
	"github.com/mwangi/biasharabot/backend/internal/domain/forecast"
	"github.com/mwangi/biasharabot/backend/internal/domain/ledger"
	"github.com/mwangi/biasharabot/backend/internal/domain/owner"
	"github.com/mwangi/biasharabot/backend/internal/domain/payroll"
	"github.com/mwangi/biasharabot/backend/internal/domain/receivable"
)

// Test implementations of repositories

type testOwnerRepository struct {
	owners      map[string]*owner.Owner
	listed      []owner.Owner
	adjustments map[string]int64
}

func newTestOwnerRepository() *testOwnerRepository {
	return &testOwnerRepository{
		owners:      make(map[string]*owner.Owner),
		adjustments: make(map[string]int64),
	}
}

func (r *testOwnerRepository) add(o *owner.Owner) {
	r.owners[o.OwnerID] = o
	r.listed = append(r.listed, *o)
}

func (r *testOwnerRepository) CreateOwner(ctx context.Context, o *owner.Owner) error {
	r.add(o)
	return nil
}

func (r *testOwnerRepository) GetOwner(ctx context.Context, ownerID string) (*owner.Owner, error) {
	o, ok := r.owners[ownerID]
	if !ok {
		return nil, errors.NewNotFoundError("owner not found")
	}
	return o, nil
}

func (r *testOwnerRepository) ListOwners(ctx context.Context) ([]owner.Owner, error) {
	return r.listed, nil
}

func (r *testOwnerRepository) AdjustCashBalance(ctx context.Context, ownerID string, delta int64) error {
	if _, ok := r.owners[ownerID]; !ok {
		return errors.NewNotFoundError("owner not found")
	}
	r.owners[ownerID].CashBalance += delta
	r.adjustments[ownerID] += delta
	return nil
}

type testTransactionRepository struct {
	transactions []ledger.TransactionRecord
	err          error
}

func (r *testTransactionRepository) CreateTransaction(ctx context.Context, record *ledger.TransactionRecord) error {
	if r.err != nil {
		return r.err
	}
	r.transactions = append(r.transactions, *record)
	return nil
}

func (r *testTransactionRepository) ListTransactions(ctx context.Context, ownerID string, from, to time.Time) ([]ledger.TransactionRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []ledger.TransactionRecord
	for _, txn := range r.transactions {
		if txn.OwnerID != ownerID || txn.OccurredAt.Before(from) || txn.OccurredAt.After(to) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

type testStaffRepository struct {
	staff map[string]*payroll.StaffObligation
}

func newTestStaffRepository() *testStaffRepository {
	return &testStaffRepository{staff: make(map[string]*payroll.StaffObligation)}
}

func (r *testStaffRepository) CreateStaff(ctx context.Context, s *payroll.StaffObligation) error {
	r.staff[s.StaffID] = s
	return nil
}

func (r *testStaffRepository) GetStaff(ctx context.Context, ownerID, staffID string) (*payroll.StaffObligation, error) {
	s, ok := r.staff[staffID]
	if !ok || s.OwnerID != ownerID {
		return nil, errors.NewNotFoundError("staff not found")
	}
	return s, nil
}

func (r *testStaffRepository) ListStaff(ctx context.Context, ownerID string, activeOnly bool) ([]payroll.StaffObligation, error) {
	var out []payroll.StaffObligation
	for _, s := range r.staff {
		if s.OwnerID != ownerID || (activeOnly && !s.Active) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *testStaffRepository) SetAdvanceBalance(ctx context.Context, ownerID, staffID string, balance int64) error {
	s, ok := r.staff[staffID]
	if !ok || s.OwnerID != ownerID {
		return errors.NewNotFoundError("staff not found")
	}
	s.AdvanceBalance = balance
	return nil
}

func (r *testStaffRepository) DeactivateStaff(ctx context.Context, ownerID, staffID string) error {
	s, ok := r.staff[staffID]
	if !ok || s.OwnerID != ownerID {
		return errors.NewNotFoundError("staff not found")
	}
	s.Active = false
	return nil
}

type testReceivableRepository struct {
	receivables map[string]*receivable.Receivable
	updates     int
}

func newTestReceivableRepository() *testReceivableRepository {
	return &testReceivableRepository{receivables: make(map[string]*receivable.Receivable)}
}

func (r *testReceivableRepository) CreateReceivable(ctx context.Context, rec *receivable.Receivable) error {
	r.receivables[rec.ReceivableID] = rec
	return nil
}

func (r *testReceivableRepository) GetReceivable(ctx context.Context, ownerID, receivableID string) (*receivable.Receivable, error) {
	rec, ok := r.receivables[receivableID]
	if !ok || rec.OwnerID != ownerID {
		return nil, errors.NewNotFoundError("receivable not found")
	}
	copied := *rec
	return &copied, nil
}

func (r *testReceivableRepository) ListReceivables(ctx context.Context, ownerID string, statuses ...receivable.Status) ([]receivable.Receivable, error) {
	var out []receivable.Receivable
	for _, rec := range r.receivables {
		if rec.OwnerID != ownerID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if rec.Status == s {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (r *testReceivableRepository) UpdateReceivable(ctx context.Context, rec *receivable.Receivable) error {
	r.receivables[rec.ReceivableID] = rec
	r.updates++
	return nil
}

// Fixture assembly

type fixture struct {
	owners       *testOwnerRepository
	transactions *testTransactionRepository
	staff        *testStaffRepository
	receivables  *testReceivableRepository
	service      *Service
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		owners:       newTestOwnerRepository(),
		transactions: &testTransactionRepository{},
		staff:        newTestStaffRepository(),
		receivables:  newTestReceivableRepository(),
	}
	f.service = NewService(
		f.owners,
		f.transactions,
		f.staff,
		f.receivables,
		forecast.NewEngine(forecast.DefaultConfig()),
		slog.Default(),
	).WithClock(func() time.Time { return now })
	return f
}

func TestForecast(t *testing.T) {
	// Wednesday Jan 28; payday lands on Sunday Feb 1
	now := time.Date(2026, time.January, 28, 8, 0, 0, 0, time.UTC)

	setup := func() *fixture {
		f := newFixture(now)
		f.owners.add(&owner.Owner{OwnerID: "o1", CashBalance: 28500})
		// One income and one expense inside the 30-day window, sized so the
		// daily averages come out to 4500 and 1200
		f.transactions.transactions = []ledger.TransactionRecord{
			{OwnerID: "o1", Kind: ledger.KindIncome, Amount: 135000, OccurredAt: now.AddDate(0, 0, -10)},
			{OwnerID: "o1", Kind: ledger.KindExpense, Amount: 36000, OccurredAt: now.AddDate(0, 0, -10)},
		}
		f.staff.CreateStaff(context.Background(), &payroll.StaffObligation{
			StaffID: "s1", OwnerID: "o1", Name: "Amina",
			SalaryType: payroll.Monthly, SalaryAmount: 10000, PaymentDay: 1, Active: true,
		})
		return f
	}

	t.Run("builds the projection from the owner's books", func(t *testing.T) {
		f := setup()
		report, err := f.service.Forecast(context.Background(), "o1", 7)
		require.NoError(t, err)

		assert.Equal(t, "o1", report.OwnerID)
		assert.Equal(t, int64(28500), report.CurrentCash)
		assert.Equal(t, DefaultWindowDays, report.WindowDays)
		require.Len(t, report.Points, 7)

		// Salary falls due on Feb 1, four days out
		assert.Equal(t, 4, report.FirstProblemDay)
		assert.Equal(t, forecast.FlagSalaryDue, report.Points[4].Flag)
		assert.Equal(t, int64(10000), report.Points[4].SalariesDue)

		require.NotNil(t, report.NextPayday)
		assert.Equal(t, "s1", report.NextPayday.StaffID)
		assert.Equal(t, 4, report.NextPayday.InDays)
		assert.Equal(t, int64(10000), report.NextPayday.AmountDue)
	})

	t.Run("rejects horizons outside 1 to 30 days", func(t *testing.T) {
		f := setup()
		_, err := f.service.Forecast(context.Background(), "o1", 0)
		assert.Error(t, err)
		_, err = f.service.Forecast(context.Background(), "o1", 31)
		assert.Error(t, err)
	})

	t.Run("unknown owner surfaces not found", func(t *testing.T) {
		f := setup()
		_, err := f.service.Forecast(context.Background(), "missing", 7)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", err.(errors.AppError).Code)
	})
}

func TestHealth(t *testing.T) {
	now := time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)

	f := newFixture(now)
	f.owners.add(&owner.Owner{OwnerID: "o1", CashBalance: 45000})
	f.transactions.transactions = []ledger.TransactionRecord{
		{OwnerID: "o1", Kind: ledger.KindIncome, Amount: 10000, OccurredAt: now.AddDate(0, 0, -5)},
		{OwnerID: "o1", Kind: ledger.KindExpense, Amount: 6000, OccurredAt: now.AddDate(0, 0, -5)},
		{OwnerID: "o1", Kind: ledger.KindIncome, Amount: 8000, OccurredAt: now.AddDate(0, -1, 0)},
		{OwnerID: "o1", Kind: ledger.KindExpense, Amount: 6000, OccurredAt: now.AddDate(0, -1, 0)},
	}

	result, err := f.service.Health(context.Background(), "o1")
	require.NoError(t, err)

	// 40% margin this month
	assert.Equal(t, 100, result.ProfitMargin.Score)
	// Spend is flat month over month
	assert.Equal(t, 100, result.ExpenseControl.Score)
	// Income grew 25%
	assert.Equal(t, 100, result.GrowthTrend.Score)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
}

func TestRecordPayment(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

	setup := func(status receivable.Status, amountPaid int64) *fixture {
		f := newFixture(now)
		f.owners.add(&owner.Owner{OwnerID: "o1", CashBalance: 5000})
		f.receivables.CreateReceivable(context.Background(), &receivable.Receivable{
			ReceivableID: "r1", OwnerID: "o1", CustomerID: "c1",
			Amount: 8000, AmountPaid: amountPaid, Status: status,
			CreatedAt: now.AddDate(0, 0, -6),
		})
		return f
	}

	t.Run("payment updates the receivable, ledger, and cash balance", func(t *testing.T) {
		f := setup(receivable.Pending, 0)

		result, err := f.service.RecordPayment(context.Background(), "o1", "r1", 3000)
		require.NoError(t, err)

		assert.Equal(t, int64(3000), result.AppliedAmount)
		assert.Equal(t, receivable.Partial, f.receivables.receivables["r1"].Status)

		require.Len(t, f.transactions.transactions, 1)
		txn := f.transactions.transactions[0]
		assert.Equal(t, ledger.KindIncome, txn.Kind)
		assert.Equal(t, CollectionCategory, txn.Category)
		assert.Equal(t, int64(3000), txn.Amount)
		assert.Equal(t, "c1", txn.CustomerID)
		assert.NotEmpty(t, txn.TransactionID)

		assert.Equal(t, int64(8000), f.owners.owners["o1"].CashBalance)
	})

	t.Run("overpayment credits only the remaining balance", func(t *testing.T) {
		f := setup(receivable.Partial, 3000)

		result, err := f.service.RecordPayment(context.Background(), "o1", "r1", 6000)
		require.NoError(t, err)

		assert.Equal(t, int64(5000), result.AppliedAmount)
		assert.Equal(t, receivable.Paid, f.receivables.receivables["r1"].Status)
		assert.Equal(t, int64(10000), f.owners.owners["o1"].CashBalance)
	})

	t.Run("settled receivable is a no-op with no side effects", func(t *testing.T) {
		f := setup(receivable.Paid, 8000)

		result, err := f.service.RecordPayment(context.Background(), "o1", "r1", 2000)
		require.NoError(t, err)

		assert.Equal(t, int64(0), result.AppliedAmount)
		assert.Equal(t, 0, f.receivables.updates)
		assert.Empty(t, f.transactions.transactions)
		assert.Equal(t, int64(5000), f.owners.owners["o1"].CashBalance)
	})

	t.Run("unknown receivable surfaces not found", func(t *testing.T) {
		f := setup(receivable.Pending, 0)
		_, err := f.service.RecordPayment(context.Background(), "o1", "missing", 1000)
		assert.Error(t, err)
	})
}

func TestLogTransaction(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

	setup := func() *fixture {
		f := newFixture(now)
		f.owners.add(&owner.Owner{OwnerID: "o1", CashBalance: 10000})
		f.staff.CreateStaff(context.Background(), &payroll.StaffObligation{
			StaffID: "s1", OwnerID: "o1", SalaryType: payroll.Monthly,
			SalaryAmount: 9000, AdvanceBalance: 2000, Active: true,
		})
		return f
	}

	t.Run("income raises the cash balance", func(t *testing.T) {
		f := setup()
		record, err := f.service.LogTransaction(context.Background(), "o1", &ledger.CreateTransactionRequest{
			Kind: ledger.KindIncome, Amount: 4000,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, record.TransactionID)
		assert.Equal(t, now, record.OccurredAt)
		assert.Equal(t, int64(14000), f.owners.owners["o1"].CashBalance)
	})

	t.Run("expense lowers the cash balance", func(t *testing.T) {
		f := setup()
		_, err := f.service.LogTransaction(context.Background(), "o1", &ledger.CreateTransactionRequest{
			Kind: ledger.KindExpense, Amount: 2500, Category: "stock",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(7500), f.owners.owners["o1"].CashBalance)
	})

	t.Run("salary payment settles the staff advance", func(t *testing.T) {
		f := setup()
		_, err := f.service.LogTransaction(context.Background(), "o1", &ledger.CreateTransactionRequest{
			Kind: ledger.KindSalary, Amount: 7000, StaffID: "s1",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(0), f.staff.staff["s1"].AdvanceBalance)
		assert.Equal(t, int64(3000), f.owners.owners["o1"].CashBalance)
	})

	t.Run("advance grows the staff advance balance", func(t *testing.T) {
		f := setup()
		_, err := f.service.LogTransaction(context.Background(), "o1", &ledger.CreateTransactionRequest{
			Kind: ledger.KindAdvance, Amount: 1500, StaffID: "s1",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(3500), f.staff.staff["s1"].AdvanceBalance)
		assert.Equal(t, int64(8500), f.owners.owners["o1"].CashBalance)
	})

	t.Run("explicit occurredAt is preserved", func(t *testing.T) {
		f := setup()
		backdated := now.AddDate(0, 0, -3)
		record, err := f.service.LogTransaction(context.Background(), "o1", &ledger.CreateTransactionRequest{
			Kind: ledger.KindIncome, Amount: 100, OccurredAt: backdated,
		})
		require.NoError(t, err)
		assert.Equal(t, backdated, record.OccurredAt)
	})

	t.Run("rejects unknown kinds and negative amounts", func(t *testing.T) {
		f := setup()
		_, err := f.service.LogTransaction(context.Background(), "o1", &ledger.CreateTransactionRequest{
			Kind: "loan", Amount: 100,
		})
		assert.Error(t, err)

		_, err = f.service.LogTransaction(context.Background(), "o1", &ledger.CreateTransactionRequest{
			Kind: ledger.KindIncome, Amount: -100,
		})
		assert.Error(t, err)
	})
}

func TestPendingReceivables(t *testing.T) {
	now := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	f := newFixture(now)
	f.owners.add(&owner.Owner{OwnerID: "o1"})

	f.receivables.CreateReceivable(context.Background(), &receivable.Receivable{
		ReceivableID: "newer", OwnerID: "o1", Amount: 1000,
		Status: receivable.Pending, CreatedAt: now.AddDate(0, 0, -2),
	})
	f.receivables.CreateReceivable(context.Background(), &receivable.Receivable{
		ReceivableID: "older", OwnerID: "o1", Amount: 2000,
		Status: receivable.Partial, CreatedAt: now.AddDate(0, 0, -20),
	})
	f.receivables.CreateReceivable(context.Background(), &receivable.Receivable{
		ReceivableID: "settled", OwnerID: "o1", Amount: 500, AmountPaid: 500,
		Status: receivable.Paid, CreatedAt: now.AddDate(0, 0, -30),
	})

	open, err := f.service.PendingReceivables(context.Background(), "o1")
	require.NoError(t, err)

	require.Len(t, open, 2)
	assert.Equal(t, "older", open[0].ReceivableID, "oldest debt comes first")
	assert.Equal(t, "newer", open[1].ReceivableID)
}

func TestRefreshAll(t *testing.T) {
	now := time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC)

	t.Run("one owner's failure never stops the batch", func(t *testing.T) {
		f := newFixture(now)
		f.owners.add(&owner.Owner{OwnerID: "good", CashBalance: 10000})
		f.owners.add(&owner.Owner{OwnerID: "bad"})

		// The bad owner exists in the list but its profile is gone by the
		// time the refresh reads it
		delete(f.owners.owners, "bad")

		summary, err := f.service.RefreshAll(context.Background(), DefaultHorizonDays)
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Owners)
		assert.Equal(t, 1, summary.Succeeded)
		assert.Equal(t, 1, summary.Failed)
		require.Len(t, summary.Briefs, 1)
		assert.Equal(t, "good", summary.Briefs[0].OwnerID)
	})
}
