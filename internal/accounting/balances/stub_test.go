package balances

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
	"github.com/ajr-erp/ajr/internal/accounting/reports"
	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

type posting struct {
	entry   int64
	account int64
	date    time.Time
	dir     string
	amount  decimal.Decimal
}

// fakeLedger serves both the account reader and the aggregate repository
// from in-memory rows.
type fakeLedger struct {
	accounts  []accounts.Account
	postings  []posting
	leafCalls int
}

func day(s string) time.Time {
	t, err := shared.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func account(id int64, code, desc string, typ accounts.AccountType, nature accounts.Nature, leaf bool) accounts.Account {
	return accounts.Account{
		ID: id, Code: code, Description: desc, Type: typ, Nature: nature,
		Level: accounts.Level(code), AcceptsPostings: leaf, IsActive: true,
	}
}

func (f *fakeLedger) post(entry int64, date string, debitAcc, creditAcc int64, value string) {
	d := day(date)
	f.postings = append(f.postings,
		posting{entry: entry, account: debitAcc, date: d, dir: "DEBIT", amount: amt(value)},
		posting{entry: entry, account: creditAcc, date: d, dir: "CREDIT", amount: amt(value)},
	)
}

func (f *fakeLedger) Get(ctx context.Context, id int64) (accounts.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return accounts.Account{}, shared.ErrAccountNotFound
}

func (f *fakeLedger) GetByCode(ctx context.Context, code string) (accounts.Account, error) {
	for _, a := range f.accounts {
		if a.Code == code {
			return a, nil
		}
	}
	return accounts.Account{}, shared.ErrAccountNotFound
}

func (f *fakeLedger) List(ctx context.Context, filter accounts.ListFilter) ([]accounts.Account, error) {
	return f.accounts, nil
}

func (f *fakeLedger) CodeIndex(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(f.accounts))
	for _, a := range f.accounts {
		out[a.Code] = a.ID
	}
	return out, nil
}

func (f *fakeLedger) totals(id int64, rng shared.DateRange) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, p := range f.postings {
		if p.account != id || !rng.Contains(p.date) {
			continue
		}
		if p.dir == "DEBIT" {
			debit = debit.Add(p.amount)
		} else {
			credit = credit.Add(p.amount)
		}
	}
	return debit, credit
}

func (f *fakeLedger) AccountTotals(ctx context.Context, accountID int64, rng shared.DateRange) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := f.totals(accountID, rng)
	return debit, credit, nil
}

func (f *fakeLedger) LeafTotals(ctx context.Context, q LeafQuery) ([]reports.AccountBalance, error) {
	f.leafCalls++
	var out []reports.AccountBalance
	for _, a := range f.accounts {
		if !a.AcceptsPostings {
			continue
		}
		if q.Prefix != "" && !accounts.InSubtree(a.Code, q.Prefix) {
			continue
		}
		if q.Type != "" && a.Type != q.Type {
			continue
		}
		debit, credit := f.totals(a.ID, q.Range)
		out = append(out, reports.AccountBalance{
			AccountID: a.ID, Code: a.Code, Description: a.Description, Type: a.Type, Nature: a.Nature,
			Opening: decimal.Zero, Debit: debit, Credit: credit,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeLedger) Movements(ctx context.Context, accountID int64, limit int) ([]Movement, error) {
	var out []Movement
	for i := len(f.postings) - 1; i >= 0 && len(out) < limit; i-- {
		p := f.postings[i]
		if p.account != accountID {
			continue
		}
		out = append(out, Movement{LineItemID: int64(i + 1), EntryID: p.entry, Date: p.date, ReasonCodeID: 1, Direction: p.dir, Amount: p.amount})
	}
	return out, nil
}

func (f *fakeLedger) RecentEntries(ctx context.Context, limit int) ([]EntrySummary, error) {
	seen := map[int64]int{}
	var out []EntrySummary
	for _, p := range f.postings {
		idx, ok := seen[p.entry]
		if !ok {
			seen[p.entry] = len(out)
			out = append(out, EntrySummary{ID: p.entry, Date: p.date, ReasonCodeID: 1, DebitTotal: decimal.Zero})
			idx = len(out) - 1
		}
		if p.dir == "DEBIT" {
			out[idx].DebitTotal = out[idx].DebitTotal.Add(p.amount)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLedger) EntryCount(ctx context.Context) (int64, error) {
	seen := map[int64]bool{}
	for _, p := range f.postings {
		seen[p.entry] = true
	}
	return int64(len(seen)), nil
}

// standardLedger builds a small chart following the dashboard prefixes.
func standardLedger() *fakeLedger {
	f := &fakeLedger{accounts: []accounts.Account{
		account(1, "1", "Ativo", accounts.AccountTypeAsset, accounts.NatureDebit, false),
		account(2, "1.1", "Circulante", accounts.AccountTypeAsset, accounts.NatureDebit, false),
		account(3, "1.1.1", "Disponível", accounts.AccountTypeAsset, accounts.NatureDebit, false),
		account(10, "1.1.1.01", "Caixa", accounts.AccountTypeAsset, accounts.NatureDebit, true),
		account(11, "1.1.2.01", "Clientes", accounts.AccountTypeAsset, accounts.NatureDebit, true),
		account(20, "2.1.1.01", "Fornecedores", accounts.AccountTypeLiability, accounts.NatureCredit, true),
		account(21, "2.1.3.01", "ISS a recolher", accounts.AccountTypeLiability, accounts.NatureCredit, true),
		account(40, "4.1.01", "Receita de serviços", accounts.AccountTypeRevenue, accounts.NatureCredit, true),
		account(41, "4.1.02", "Receita de vendas", accounts.AccountTypeRevenue, accounts.NatureCredit, true),
		account(50, "5.1.1", "Pessoal", accounts.AccountTypeExpense, accounts.NatureDebit, false),
		account(51, "5.1.1.01", "Salários", accounts.AccountTypeExpense, accounts.NatureDebit, true),
		account(52, "5.2.9.01", "Diversas", accounts.AccountTypeExpense, accounts.NatureDebit, true),
	}}
	f.post(1, "2024-03-15", 10, 40, "200.00")
	f.post(2, "2024-05-05", 10, 40, "1000.00")
	f.post(3, "2024-05-10", 51, 20, "300.00")
	f.post(4, "2024-05-12", 52, 10, "50.00")
	f.post(5, "2024-05-25", 11, 41, "999.00")
	return f
}

type hitCounter struct {
	hits, misses int
}

func (h *hitCounter) CacheLookup(hit bool) {
	if hit {
		h.hits++
		return
	}
	h.misses++
}
