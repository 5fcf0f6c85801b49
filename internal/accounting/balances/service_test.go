package balances

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

func newTestService(f *fakeLedger, opts ...Option) *Service {
	svc := NewService(f, f, opts...)
	svc.WithNow(func() time.Time { return time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC) })
	return svc
}

func rangeOf(from, to string) shared.DateRange {
	var r shared.DateRange
	if from != "" {
		f := day(from)
		r.From = &f
	}
	if to != "" {
		t := day(to)
		r.To = &t
	}
	return r
}

func TestAccountBalanceSignsByNature(t *testing.T) {
	f := &fakeLedger{accounts: []accounts.Account{
		account(1, "1", "Ativo", accounts.AccountTypeAsset, accounts.NatureDebit, false),
		account(2, "1.1", "Circulante", accounts.AccountTypeAsset, accounts.NatureDebit, false),
		account(3, "1.1.01", "Caixa", accounts.AccountTypeAsset, accounts.NatureDebit, true),
		account(4, "4.1.01", "Receita", accounts.AccountTypeRevenue, accounts.NatureCredit, true),
	}}
	f.post(1, "2024-05-02", 3, 4, "500.00")
	svc := newTestService(f)

	cash, err := svc.AccountBalance(context.Background(), 3, shared.DateRange{})
	require.NoError(t, err)
	assert.True(t, cash.SignedBalance.Equal(amt("500")))
	assert.True(t, cash.DebitTotal.Equal(amt("500")))
	assert.True(t, cash.CreditTotal.IsZero())

	revenue, err := svc.AccountBalance(context.Background(), 4, shared.DateRange{})
	require.NoError(t, err)
	assert.True(t, revenue.SignedBalance.Equal(amt("500")))

	parent, err := svc.AccountBalance(context.Background(), 2, shared.DateRange{})
	require.NoError(t, err)
	assert.True(t, parent.SignedBalance.IsZero(), "synthetic accounts hold no line items")
}

func TestAccountBalanceRangeAndMissing(t *testing.T) {
	f := standardLedger()
	svc := newTestService(f)

	may, err := svc.AccountBalance(context.Background(), 10, rangeOf("2024-05-01", "2024-05-31"))
	require.NoError(t, err)
	assert.True(t, may.SignedBalance.Equal(amt("950")))

	inverted, err := svc.AccountBalance(context.Background(), 10, rangeOf("2024-06-01", "2024-05-01"))
	require.NoError(t, err)
	assert.True(t, inverted.DebitTotal.IsZero())
	assert.True(t, inverted.SignedBalance.IsZero())

	_, err = svc.AccountBalance(context.Background(), 999, shared.DateRange{})
	assert.True(t, errors.Is(err, shared.ErrAccountNotFound))
}

func TestSubtreeBalanceRespectsSegmentBoundary(t *testing.T) {
	f := standardLedger()
	f.accounts = append(f.accounts, account(12, "1.10.01", "Outros", accounts.AccountTypeAsset, accounts.NatureDebit, true))
	f.post(9, "2024-05-03", 12, 40, "7.00")
	svc := newTestService(f)

	sub, err := svc.SubtreeBalance(context.Background(), "1.1", shared.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Accounts)
	assert.True(t, sub.DebitTotal.Equal(amt("2199")))
	assert.True(t, sub.CreditTotal.Equal(amt("50")))

	all, err := svc.SubtreeBalance(context.Background(), "1", shared.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Accounts)

	_, err = svc.SubtreeBalance(context.Background(), "1..", shared.DateRange{})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestMovementsClampsLimit(t *testing.T) {
	f := standardLedger()
	svc := newTestService(f)

	list, err := svc.Movements(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(4), list[0].EntryID, "newest first")

	list, err = svc.Movements(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Movements(context.Background(), 999, 5)
	assert.True(t, shared.IsNotFound(err))
}

func TestPeriodTotalsByType(t *testing.T) {
	svc := newTestService(standardLedger())
	may := rangeOf("2024-05-01", "2024-05-31")

	rev, err := svc.PeriodTotals(context.Background(), accounts.AccountTypeRevenue, may)
	require.NoError(t, err)
	assert.True(t, rev.Amount.Equal(amt("1999")))

	exp, err := svc.PeriodTotals(context.Background(), accounts.AccountTypeExpense, may)
	require.NoError(t, err)
	assert.True(t, exp.Amount.Equal(amt("350")))

	liab, err := svc.PeriodTotals(context.Background(), accounts.AccountTypeLiability, may)
	require.NoError(t, err)
	assert.True(t, liab.Amount.Equal(amt("300")))

	_, err = svc.PeriodTotals(context.Background(), "PROFIT", may)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestTrialBalanceCarriesOpening(t *testing.T) {
	svc := newTestService(standardLedger())

	tb, err := svc.TrialBalance(context.Background(), rangeOf("2024-05-01", "2024-05-31"))
	require.NoError(t, err)
	assert.True(t, tb.Balanced())
	assert.True(t, tb.TotalDebit.Equal(amt("2349")))

	require.NotEmpty(t, tb.Groups)
	cash := tb.Groups[0].Accounts[0]
	assert.Equal(t, "1.1.1.01", cash.Code)
	assert.True(t, cash.Opening.Equal(amt("200")))
	assert.True(t, cash.Closing.Equal(amt("1150")))
}

func TestProfitAndLossAndBalanceSheet(t *testing.T) {
	svc := newTestService(standardLedger())

	pl, err := svc.ProfitAndLoss(context.Background(), rangeOf("2024-05-01", "2024-05-31"))
	require.NoError(t, err)
	assert.True(t, pl.NetIncome.Equal(amt("1649")))

	bs, err := svc.BalanceSheet(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.True(t, bs.Assets.Total.Equal(amt("1150")), "as of today excludes later postings")
	assert.True(t, bs.Liabilities.Total.Equal(amt("300")))
}

func TestFinanceSummary(t *testing.T) {
	svc := newTestService(standardLedger())

	s, err := svc.FinanceSummary(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.True(t, s.AsOf.Equal(day("2024-05-20")))
	assert.True(t, s.AvailableCash.Equal(amt("1150")))
	assert.True(t, s.Receivables.IsZero(), "postings after as-of are ignored")
	assert.True(t, s.Payables.Equal(amt("300")))
	assert.True(t, s.TaxesPayable.IsZero())
	assert.True(t, s.MonthRevenue.Equal(amt("1000")))
	assert.True(t, s.MonthExpenses.Equal(amt("350")))
	assert.True(t, s.MonthResult.Equal(amt("650")))

	require.Len(t, s.RevenueByAccount, 1)
	assert.Equal(t, "4.1.01", s.RevenueByAccount[0].Code)

	require.Len(t, s.ExpensesByCategory, 2)
	assert.Equal(t, "5.1.1", s.ExpensesByCategory[0].Code)
	assert.Equal(t, "Pessoal", s.ExpensesByCategory[0].Name)
	assert.True(t, s.ExpensesByCategory[0].Amount.Equal(amt("300")))
	assert.Equal(t, "5.2.9", s.ExpensesByCategory[1].Name, "unknown category falls back to its code")

	require.Len(t, s.Evolution, evolutionMonths)
	assert.Equal(t, "2023-12", s.Evolution[0].Month)
	assert.Equal(t, "2024-05", s.Evolution[5].Month)
	assert.True(t, s.Evolution[3].Revenue.Equal(amt("200")))
	assert.True(t, s.Evolution[5].Result.Equal(amt("650")))

	assert.Equal(t, int64(5), s.EntryCount)
	assert.Len(t, s.RecentEntries, 5)
}

func TestCategoryTruncatesCode(t *testing.T) {
	assert.Equal(t, "5.1.1", category("5.1.1.01"))
	assert.Equal(t, "5.1", category("5.1"))
	assert.Equal(t, "5.1.1", category("5.1.1.01.003"))
}

func TestWarmDefaultsToDashboardPrefixes(t *testing.T) {
	svc := newTestService(standardLedger())
	n, err := svc.Warm(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = svc.Warm(context.Background(), []string{"x"})
	assert.Error(t, err)
}
