package balances

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

// AccountBalance is the aggregate of one account's line items.
type AccountBalance struct {
	AccountID     int64
	Code          string
	Nature        accounts.Nature
	Range         shared.DateRange
	DebitTotal    decimal.Decimal
	CreditTotal   decimal.Decimal
	SignedBalance decimal.Decimal
}

// SubtreeBalance sums the postable accounts under a code prefix.
type SubtreeBalance struct {
	Prefix      string
	Range       shared.DateRange
	Accounts    int
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// Movement is one line item seen from its account.
type Movement struct {
	LineItemID   int64
	EntryID      int64
	Date         time.Time
	ReasonCodeID int64
	Memo         *string
	Direction    string
	Amount       decimal.Decimal
	CostCenterID *int64
}

// PeriodTotals aggregates one account type over a date window. Amount is
// credits for REVENUE, debits for EXPENSE, and the nature-signed balance for
// the remaining types.
type PeriodTotals struct {
	Type        accounts.AccountType
	Range       shared.DateRange
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	Amount      decimal.Decimal
}

// EntrySummary is a compact view of a recent ledger entry.
type EntrySummary struct {
	ID           int64
	Date         time.Time
	ReasonCodeID int64
	Memo         *string
	DebitTotal   decimal.Decimal
}

// NamedAmount labels an amount for dashboard breakdowns.
type NamedAmount struct {
	Code   string
	Name   string
	Amount decimal.Decimal
}

// MonthFigures holds revenue and expenses of one calendar month.
type MonthFigures struct {
	Month    string
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Result   decimal.Decimal
}

// FinanceSummary is the back-office finance dashboard.
type FinanceSummary struct {
	AsOf               time.Time
	EntryCount         int64
	AvailableCash      decimal.Decimal
	Receivables        decimal.Decimal
	Payables           decimal.Decimal
	SalariesPayable    decimal.Decimal
	TaxesPayable       decimal.Decimal
	MonthRevenue       decimal.Decimal
	MonthExpenses      decimal.Decimal
	MonthResult        decimal.Decimal
	RevenueByAccount   []NamedAmount
	ExpensesByCategory []NamedAmount
	Evolution          []MonthFigures
	RecentEntries      []EntrySummary
}

// LeafQuery selects postable accounts for aggregation. Empty fields do not
// filter.
type LeafQuery struct {
	Prefix string
	Type   accounts.AccountType
	Range  shared.DateRange
}
