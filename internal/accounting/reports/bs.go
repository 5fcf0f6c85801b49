package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
)

// BalanceSheetAccount summarises an account for assets, liabilities, or equity.
type BalanceSheetAccount struct {
	Code        string
	Description string
	Balance     decimal.Decimal
}

// BalanceSheetSection contains the accounts and totals for a classification.
type BalanceSheetSection struct {
	Label    string
	Accounts []BalanceSheetAccount
	Total    decimal.Decimal
}

// BalanceSheet is the structured response for the balance sheet report.
type BalanceSheet struct {
	Assets                    BalanceSheetSection
	Liabilities               BalanceSheetSection
	Equity                    BalanceSheetSection
	TotalLiabilitiesAndEquity decimal.Decimal
}

// BuildBalanceSheet aggregates closing balances into assets, liabilities,
// and equity sections. Balances are on each account's normal side.
func BuildBalanceSheet(list []AccountBalance) BalanceSheet {
	assets := BalanceSheetSection{Label: "Assets", Total: decimal.Zero}
	liabilities := BalanceSheetSection{Label: "Liabilities", Total: decimal.Zero}
	equity := BalanceSheetSection{Label: "Equity", Total: decimal.Zero}

	for _, acc := range list {
		row := BalanceSheetAccount{Code: acc.Code, Description: acc.Description, Balance: acc.Closing()}
		var section *BalanceSheetSection
		switch acc.Type {
		case accounts.AccountTypeAsset:
			section = &assets
		case accounts.AccountTypeLiability:
			section = &liabilities
		case accounts.AccountTypeEquity:
			section = &equity
		case accounts.AccountTypeRevenue, accounts.AccountTypeExpense:
			continue
		default:
			continue
		}
		section.Accounts = append(section.Accounts, row)
		section.Total = section.Total.Add(row.Balance)
	}

	for _, s := range []*BalanceSheetSection{&assets, &liabilities, &equity} {
		sort.Slice(s.Accounts, func(i, j int) bool { return s.Accounts[i].Code < s.Accounts[j].Code })
	}

	return BalanceSheet{
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		TotalLiabilitiesAndEquity: liabilities.Total.Add(equity.Total),
	}
}
