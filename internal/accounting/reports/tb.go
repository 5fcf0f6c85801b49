package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
)

// AccountBalance models a postable account with aggregated balances. Opening
// is already signed on the account's normal side.
type AccountBalance struct {
	AccountID   int64
	Code        string
	Description string
	Type        accounts.AccountType
	Nature      accounts.Nature
	Opening     decimal.Decimal
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Movement returns the period movement signed by nature.
func (a AccountBalance) Movement() decimal.Decimal {
	return a.Nature.Signed(a.Debit, a.Credit)
}

// Closing computes the closing balance for the account.
func (a AccountBalance) Closing() decimal.Decimal {
	return a.Opening.Add(a.Movement())
}

// GroupKey returns the top-level code segment used for grouping.
func (a AccountBalance) GroupKey() string {
	if idx := strings.Index(a.Code, "."); idx > 0 {
		return a.Code[:idx]
	}
	return a.Code
}

// TrialBalanceAccount represents a row inside a trial balance group.
type TrialBalanceAccount struct {
	AccountID   int64
	Code        string
	Description string
	Nature      accounts.Nature
	Opening     decimal.Decimal
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Closing     decimal.Decimal
}

// TrialBalanceGroup aggregates accounts under one top-level code.
type TrialBalanceGroup struct {
	Key      string
	Accounts []TrialBalanceAccount
	Debit    decimal.Decimal
	Credit   decimal.Decimal
}

// TrialBalance lists every postable account with its period debits and
// credits. A sound ledger always has TotalDebit == TotalCredit.
type TrialBalance struct {
	Groups      []TrialBalanceGroup
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// Balanced reports whether total debits equal total credits.
func (tb TrialBalance) Balanced() bool {
	return tb.TotalDebit.Equal(tb.TotalCredit)
}

// BuildTrialBalance converts account balances into grouped trial balance data.
// Closing balances are signed per account nature and are therefore not summed
// across groups.
func BuildTrialBalance(list []AccountBalance) TrialBalance {
	groups := make(map[string]*TrialBalanceGroup)
	keys := make([]string, 0)
	for _, acc := range list {
		key := acc.GroupKey()
		grp, ok := groups[key]
		if !ok {
			grp = &TrialBalanceGroup{Key: key, Debit: decimal.Zero, Credit: decimal.Zero}
			groups[key] = grp
			keys = append(keys, key)
		}
		grp.Accounts = append(grp.Accounts, TrialBalanceAccount{
			AccountID:   acc.AccountID,
			Code:        acc.Code,
			Description: acc.Description,
			Nature:      acc.Nature,
			Opening:     acc.Opening,
			Debit:       acc.Debit,
			Credit:      acc.Credit,
			Closing:     acc.Closing(),
		})
		grp.Debit = grp.Debit.Add(acc.Debit)
		grp.Credit = grp.Credit.Add(acc.Credit)
	}

	sort.Strings(keys)
	result := TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, key := range keys {
		grp := groups[key]
		sort.Slice(grp.Accounts, func(i, j int) bool {
			return grp.Accounts[i].Code < grp.Accounts[j].Code
		})
		result.Groups = append(result.Groups, *grp)
		result.TotalDebit = result.TotalDebit.Add(grp.Debit)
		result.TotalCredit = result.TotalCredit.Add(grp.Credit)
	}
	return result
}
