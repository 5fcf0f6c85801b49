package reports

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuildTrialBalance(t *testing.T) {
	list := []AccountBalance{
		{Code: "1.1.02", Description: "Bank", Type: accounts.AccountTypeAsset, Nature: accounts.NatureDebit, Opening: d("500"), Debit: d("100"), Credit: d("50")},
		{Code: "1.1.01", Description: "Cash", Type: accounts.AccountTypeAsset, Nature: accounts.NatureDebit, Opening: d("1000"), Debit: d("200.00"), Credit: d("150")},
		{Code: "2.1.01", Description: "Suppliers", Type: accounts.AccountTypeLiability, Nature: accounts.NatureCredit, Debit: d("10"), Credit: d("110")},
	}

	tb := BuildTrialBalance(list)
	require.Len(t, tb.Groups, 2)
	assert.Equal(t, "1", tb.Groups[0].Key)
	assert.Equal(t, "1.1.01", tb.Groups[0].Accounts[0].Code)
	assert.True(t, tb.TotalDebit.Equal(d("310")))
	assert.True(t, tb.TotalCredit.Equal(d("310")))
	assert.True(t, tb.Balanced())

	assert.True(t, tb.Groups[0].Accounts[0].Closing.Equal(d("1050")))
	assert.True(t, tb.Groups[1].Accounts[0].Closing.Equal(d("100")), "credit-nature closing is credit minus debit")
}

func TestBuildTrialBalanceDetectsImbalance(t *testing.T) {
	tb := BuildTrialBalance([]AccountBalance{
		{Code: "1.1.01", Nature: accounts.NatureDebit, Debit: d("1000.00"), Credit: decimal.Zero},
		{Code: "4.1.01", Nature: accounts.NatureCredit, Debit: decimal.Zero, Credit: d("999.99")},
	})
	assert.False(t, tb.Balanced())
}

func TestBuildProfitAndLoss(t *testing.T) {
	list := []AccountBalance{
		{Code: "4.1.01", Description: "Rentals", Type: accounts.AccountTypeRevenue, Credit: d("1200"), Debit: decimal.Zero},
		{Code: "5.1.02", Description: "Fuel", Type: accounts.AccountTypeExpense, Debit: d("300"), Credit: decimal.Zero},
		{Code: "5.1.01", Description: "Maintenance", Type: accounts.AccountTypeExpense, Debit: d("250"), Credit: d("50")},
		{Code: "1.1.01", Description: "Cash", Type: accounts.AccountTypeAsset, Debit: d("999")},
	}

	pl := BuildProfitAndLoss(list)
	assert.True(t, pl.Revenue.Total.Equal(d("1200")))
	assert.True(t, pl.Expense.Total.Equal(d("500")))
	assert.True(t, pl.NetIncome.Equal(d("700")))
	require.Len(t, pl.Expense.Accounts, 2)
	assert.Equal(t, "5.1.01", pl.Expense.Accounts[0].Code)
}

func TestBuildBalanceSheet(t *testing.T) {
	list := []AccountBalance{
		{Code: "1.1.01", Type: accounts.AccountTypeAsset, Nature: accounts.NatureDebit, Opening: decimal.Zero, Debit: d("100"), Credit: d("20")},
		{Code: "2.1.01", Type: accounts.AccountTypeLiability, Nature: accounts.NatureCredit, Opening: decimal.Zero, Debit: d("10"), Credit: d("40")},
		{Code: "3.1.01", Type: accounts.AccountTypeEquity, Nature: accounts.NatureCredit, Opening: d("50"), Debit: decimal.Zero, Credit: decimal.Zero},
		{Code: "4.1.01", Type: accounts.AccountTypeRevenue, Nature: accounts.NatureCredit, Credit: d("70")},
	}

	bs := BuildBalanceSheet(list)
	assert.True(t, bs.Assets.Total.Equal(d("80")))
	assert.True(t, bs.Liabilities.Total.Equal(d("30")))
	assert.True(t, bs.Equity.Total.Equal(d("50")))
	assert.True(t, bs.TotalLiabilitiesAndEquity.Equal(d("80")))
}
