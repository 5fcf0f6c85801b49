package balances

import (
	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
	"github.com/ajr-erp/ajr/internal/accounting/reports"
	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

type rangeResponse struct {
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`
}

func toRange(r shared.DateRange) rangeResponse {
	var out rangeResponse
	if r.From != nil {
		s := r.From.Format(shared.DateLayout)
		out.From = &s
	}
	if r.To != nil {
		s := r.To.Format(shared.DateLayout)
		out.To = &s
	}
	return out
}

func amount(d decimal.Decimal) string {
	return shared.FormatAmount(d)
}

type accountBalanceResponse struct {
	AccountID     int64           `json:"account_id"`
	Code          string          `json:"code"`
	Nature        accounts.Nature `json:"nature"`
	Range         rangeResponse   `json:"range"`
	DebitTotal    string          `json:"debit_total"`
	CreditTotal   string          `json:"credit_total"`
	SignedBalance string          `json:"signed_balance"`
}

func toAccountBalance(b AccountBalance) accountBalanceResponse {
	return accountBalanceResponse{
		AccountID:     b.AccountID,
		Code:          b.Code,
		Nature:        b.Nature,
		Range:         toRange(b.Range),
		DebitTotal:    amount(b.DebitTotal),
		CreditTotal:   amount(b.CreditTotal),
		SignedBalance: amount(b.SignedBalance),
	}
}

type subtreeResponse struct {
	Prefix      string        `json:"prefix"`
	Range       rangeResponse `json:"range"`
	Accounts    int           `json:"accounts"`
	DebitTotal  string        `json:"debit_total"`
	CreditTotal string        `json:"credit_total"`
}

func toSubtree(b SubtreeBalance) subtreeResponse {
	return subtreeResponse{
		Prefix:      b.Prefix,
		Range:       toRange(b.Range),
		Accounts:    b.Accounts,
		DebitTotal:  amount(b.DebitTotal),
		CreditTotal: amount(b.CreditTotal),
	}
}

type movementResponse struct {
	LineItemID   int64   `json:"line_item_id"`
	EntryID      int64   `json:"entry_id"`
	Date         string  `json:"date"`
	ReasonCodeID int64   `json:"reason_code_id"`
	Memo         *string `json:"memo,omitempty"`
	Direction    string  `json:"direction"`
	Amount       string  `json:"amount"`
	CostCenterID *int64  `json:"cost_center_id,omitempty"`
}

func toMovements(list []Movement) []movementResponse {
	out := make([]movementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, movementResponse{
			LineItemID:   m.LineItemID,
			EntryID:      m.EntryID,
			Date:         m.Date.Format(shared.DateLayout),
			ReasonCodeID: m.ReasonCodeID,
			Memo:         m.Memo,
			Direction:    m.Direction,
			Amount:       amount(m.Amount),
			CostCenterID: m.CostCenterID,
		})
	}
	return out
}

type periodTotalsResponse struct {
	Type        accounts.AccountType `json:"type"`
	Range       rangeResponse        `json:"range"`
	DebitTotal  string               `json:"debit_total"`
	CreditTotal string               `json:"credit_total"`
	Amount      string               `json:"amount"`
}

func toPeriodTotals(p PeriodTotals) periodTotalsResponse {
	return periodTotalsResponse{
		Type:        p.Type,
		Range:       toRange(p.Range),
		DebitTotal:  amount(p.DebitTotal),
		CreditTotal: amount(p.CreditTotal),
		Amount:      amount(p.Amount),
	}
}

type trialBalanceRow struct {
	AccountID   int64           `json:"account_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Nature      accounts.Nature `json:"nature"`
	Opening     string          `json:"opening"`
	Debit       string          `json:"debit"`
	Credit      string          `json:"credit"`
	Closing     string          `json:"closing"`
}

type trialBalanceGroup struct {
	Key      string            `json:"key"`
	Debit    string            `json:"debit"`
	Credit   string            `json:"credit"`
	Accounts []trialBalanceRow `json:"accounts"`
}

type trialBalanceResponse struct {
	Range       rangeResponse       `json:"range"`
	Groups      []trialBalanceGroup `json:"groups"`
	TotalDebit  string              `json:"total_debit"`
	TotalCredit string              `json:"total_credit"`
	Balanced    bool                `json:"balanced"`
}

func toTrialBalance(rng shared.DateRange, tb reports.TrialBalance) trialBalanceResponse {
	out := trialBalanceResponse{
		Range:       toRange(rng),
		Groups:      make([]trialBalanceGroup, 0, len(tb.Groups)),
		TotalDebit:  amount(tb.TotalDebit),
		TotalCredit: amount(tb.TotalCredit),
		Balanced:    tb.Balanced(),
	}
	for _, g := range tb.Groups {
		grp := trialBalanceGroup{Key: g.Key, Debit: amount(g.Debit), Credit: amount(g.Credit)}
		for _, a := range g.Accounts {
			grp.Accounts = append(grp.Accounts, trialBalanceRow{
				AccountID:   a.AccountID,
				Code:        a.Code,
				Description: a.Description,
				Nature:      a.Nature,
				Opening:     amount(a.Opening),
				Debit:       amount(a.Debit),
				Credit:      amount(a.Credit),
				Closing:     amount(a.Closing),
			})
		}
		out.Groups = append(out.Groups, grp)
	}
	return out
}

type lineResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type sectionResponse struct {
	Label    string         `json:"label"`
	Accounts []lineResponse `json:"accounts"`
	Total    string         `json:"total"`
}

type profitLossResponse struct {
	Range     rangeResponse   `json:"range"`
	Revenue   sectionResponse `json:"revenue"`
	Expense   sectionResponse `json:"expense"`
	NetIncome string          `json:"net_income"`
}

func toPLSection(s reports.ProfitAndLossSection) sectionResponse {
	out := sectionResponse{Label: s.Label, Accounts: []lineResponse{}, Total: amount(s.Total)}
	for _, a := range s.Accounts {
		out.Accounts = append(out.Accounts, lineResponse{Code: a.Code, Description: a.Description, Amount: amount(a.Amount)})
	}
	return out
}

func toProfitLoss(rng shared.DateRange, pl reports.ProfitAndLoss) profitLossResponse {
	return profitLossResponse{
		Range:     toRange(rng),
		Revenue:   toPLSection(pl.Revenue),
		Expense:   toPLSection(pl.Expense),
		NetIncome: amount(pl.NetIncome),
	}
}

type balanceSheetResponse struct {
	AsOf                      string          `json:"as_of,omitempty"`
	Assets                    sectionResponse `json:"assets"`
	Liabilities               sectionResponse `json:"liabilities"`
	Equity                    sectionResponse `json:"equity"`
	TotalLiabilitiesAndEquity string          `json:"total_liabilities_and_equity"`
}

func toBSSection(s reports.BalanceSheetSection) sectionResponse {
	out := sectionResponse{Label: s.Label, Accounts: []lineResponse{}, Total: amount(s.Total)}
	for _, a := range s.Accounts {
		out.Accounts = append(out.Accounts, lineResponse{Code: a.Code, Description: a.Description, Amount: amount(a.Balance)})
	}
	return out
}

type namedAmountResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type monthResponse struct {
	Month    string `json:"month"`
	Revenue  string `json:"revenue"`
	Expenses string `json:"expenses"`
	Result   string `json:"result"`
}

type recentEntryResponse struct {
	ID           int64   `json:"id"`
	Date         string  `json:"date"`
	ReasonCodeID int64   `json:"reason_code_id"`
	Memo         *string `json:"memo,omitempty"`
	DebitTotal   string  `json:"debit_total"`
}

type summaryResponse struct {
	AsOf               string                `json:"as_of"`
	EntryCount         int64                 `json:"entry_count"`
	AvailableCash      string                `json:"available_cash"`
	Receivables        string                `json:"receivables"`
	Payables           string                `json:"payables"`
	SalariesPayable    string                `json:"salaries_payable"`
	TaxesPayable       string                `json:"taxes_payable"`
	MonthRevenue       string                `json:"month_revenue"`
	MonthExpenses      string                `json:"month_expenses"`
	MonthResult        string                `json:"month_result"`
	RevenueByAccount   []namedAmountResponse `json:"revenue_by_account"`
	ExpensesByCategory []namedAmountResponse `json:"expenses_by_category"`
	Evolution          []monthResponse       `json:"evolution"`
	RecentEntries      []recentEntryResponse `json:"recent_entries"`
}

func toNamed(list []NamedAmount) []namedAmountResponse {
	out := make([]namedAmountResponse, 0, len(list))
	for _, n := range list {
		out = append(out, namedAmountResponse{Code: n.Code, Name: n.Name, Amount: amount(n.Amount)})
	}
	return out
}

func toSummary(s FinanceSummary) summaryResponse {
	out := summaryResponse{
		AsOf:               s.AsOf.Format(shared.DateLayout),
		EntryCount:         s.EntryCount,
		AvailableCash:      amount(s.AvailableCash),
		Receivables:        amount(s.Receivables),
		Payables:           amount(s.Payables),
		SalariesPayable:    amount(s.SalariesPayable),
		TaxesPayable:       amount(s.TaxesPayable),
		MonthRevenue:       amount(s.MonthRevenue),
		MonthExpenses:      amount(s.MonthExpenses),
		MonthResult:        amount(s.MonthResult),
		RevenueByAccount:   toNamed(s.RevenueByAccount),
		ExpensesByCategory: toNamed(s.ExpensesByCategory),
		Evolution:          make([]monthResponse, 0, len(s.Evolution)),
		RecentEntries:      make([]recentEntryResponse, 0, len(s.RecentEntries)),
	}
	for _, m := range s.Evolution {
		out.Evolution = append(out.Evolution, monthResponse{
			Month: m.Month, Revenue: amount(m.Revenue), Expenses: amount(m.Expenses), Result: amount(m.Result),
		})
	}
	for _, e := range s.RecentEntries {
		out.RecentEntries = append(out.RecentEntries, recentEntryResponse{
			ID:           e.ID,
			Date:         e.Date.Format(shared.DateLayout),
			ReasonCodeID: e.ReasonCodeID,
			Memo:         e.Memo,
			DebitTotal:   amount(e.DebitTotal),
		})
	}
	return out
}
