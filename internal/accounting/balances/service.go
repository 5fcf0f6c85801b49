package balances

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
	"github.com/ajr-erp/ajr/internal/accounting/reports"
	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

const (
	defaultMovementLimit = 10
	maxMovementLimit     = 1000
	recentEntryLimit     = 10
	evolutionMonths      = 6
	categorySegments     = 3
)

// Dashboard prefixes over the standard chart.
const (
	PrefixCash        = "1.1.1"
	PrefixReceivables = "1.1.2"
	PrefixPayables    = "2.1.1"
	PrefixSalaries    = "2.1.2"
	PrefixTaxes       = "2.1.3"
)

// Service computes balances from line items on every read. The optional cache
// is invalidated by ledger writes.
type Service struct {
	accounts accounts.Reader
	repo     Repository
	cache    *Cache
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures optional collaborators.
type Option func(*Service)

// WithCache serves repeated reads from c.
func WithCache(c *Cache) Option { return func(s *Service) { s.cache = c } }

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService wires a balance Service.
func NewService(accts accounts.Reader, repo Repository, opts ...Option) *Service {
	s := &Service{accounts: accts, repo: repo, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithNow overrides the clock used to resolve "today".
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) today() time.Time {
	return shared.NormalizeDate(s.now())
}

// AccountBalance returns the debit and credit totals of one account and its
// balance signed by nature. Accounts without line items and inverted ranges
// yield zero totals.
func (s *Service) AccountBalance(ctx context.Context, accountID int64, rng shared.DateRange) (AccountBalance, error) {
	acc, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return AccountBalance{}, err
	}
	out := AccountBalance{
		AccountID:     acc.ID,
		Code:          acc.Code,
		Nature:        acc.Nature,
		Range:         rng,
		DebitTotal:    decimal.Zero,
		CreditTotal:   decimal.Zero,
		SignedBalance: decimal.Zero,
	}
	if rng.Inverted() {
		return out, nil
	}
	base := out
	err = s.cache.Fetch(ctx, &out, func(ctx context.Context) (any, error) {
		debit, credit, err := s.repo.AccountTotals(ctx, acc.ID, rng)
		if err != nil {
			return nil, err
		}
		res := base
		res.DebitTotal = debit
		res.CreditTotal = credit
		res.SignedBalance = acc.Nature.Signed(debit, credit)
		return res, nil
	}, "account", strconv.FormatInt(acc.ID, 10), rng.Key())
	if err != nil {
		return AccountBalance{}, err
	}
	return out, nil
}

// SubtreeBalance sums the postable accounts whose code equals prefix or
// descends from it. Synthetic accounts hold no line items, so nothing is
// counted twice.
func (s *Service) SubtreeBalance(ctx context.Context, prefix string, rng shared.DateRange) (SubtreeBalance, error) {
	prefix = strings.TrimSpace(prefix)
	if !accounts.ValidCode(prefix) {
		return SubtreeBalance{}, shared.InvalidInput("prefix %q is not a valid account code", prefix)
	}
	out := SubtreeBalance{Prefix: prefix, Range: rng, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
	if rng.Inverted() {
		return out, nil
	}
	base := out
	err := s.cache.Fetch(ctx, &out, func(ctx context.Context) (any, error) {
		leaves, err := s.repo.LeafTotals(ctx, LeafQuery{Prefix: prefix, Range: rng})
		if err != nil {
			return nil, err
		}
		res := base
		for _, leaf := range leaves {
			res.DebitTotal = res.DebitTotal.Add(leaf.Debit)
			res.CreditTotal = res.CreditTotal.Add(leaf.Credit)
		}
		res.Accounts = len(leaves)
		return res, nil
	}, "subtree", prefix, rng.Key())
	if err != nil {
		return SubtreeBalance{}, err
	}
	return out, nil
}

// Movements lists the newest line items posted against an account.
func (s *Service) Movements(ctx context.Context, accountID int64, limit int) ([]Movement, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = defaultMovementLimit
	case limit > maxMovementLimit:
		limit = maxMovementLimit
	}
	return s.repo.Movements(ctx, accountID, limit)
}

// PeriodTotals aggregates every postable account of one type.
func (s *Service) PeriodTotals(ctx context.Context, typ accounts.AccountType, rng shared.DateRange) (PeriodTotals, error) {
	if !typ.Valid() {
		return PeriodTotals{}, shared.InvalidInput("unknown account type %q", typ)
	}
	out := PeriodTotals{Type: typ, Range: rng, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero, Amount: decimal.Zero}
	if rng.Inverted() {
		return out, nil
	}
	leaves, err := s.repo.LeafTotals(ctx, LeafQuery{Type: typ, Range: rng})
	if err != nil {
		return PeriodTotals{}, err
	}
	signed := decimal.Zero
	for _, leaf := range leaves {
		out.DebitTotal = out.DebitTotal.Add(leaf.Debit)
		out.CreditTotal = out.CreditTotal.Add(leaf.Credit)
		signed = signed.Add(leaf.Movement())
	}
	switch typ {
	case accounts.AccountTypeRevenue:
		out.Amount = out.CreditTotal
	case accounts.AccountTypeExpense:
		out.Amount = out.DebitTotal
	case accounts.AccountTypeAsset, accounts.AccountTypeLiability, accounts.AccountTypeEquity:
		out.Amount = signed
	}
	return out, nil
}

// TrialBalance lists every postable account with its opening balance, period
// movement and closing balance.
func (s *Service) TrialBalance(ctx context.Context, rng shared.DateRange) (reports.TrialBalance, error) {
	if rng.Inverted() {
		return reports.BuildTrialBalance(nil), nil
	}
	current, err := s.repo.LeafTotals(ctx, LeafQuery{Range: rng})
	if err != nil {
		return reports.TrialBalance{}, err
	}
	if rng.From != nil {
		before := rng.From.AddDate(0, 0, -1)
		prior, err := s.repo.LeafTotals(ctx, LeafQuery{Range: shared.DateRange{To: &before}})
		if err != nil {
			return reports.TrialBalance{}, err
		}
		opening := make(map[int64]decimal.Decimal, len(prior))
		for _, p := range prior {
			opening[p.AccountID] = p.Nature.Signed(p.Debit, p.Credit)
		}
		for i := range current {
			if v, ok := opening[current[i].AccountID]; ok {
				current[i].Opening = v
			}
		}
	}
	return reports.BuildTrialBalance(current), nil
}

// ProfitAndLoss reports revenue and expense movement inside rng.
func (s *Service) ProfitAndLoss(ctx context.Context, rng shared.DateRange) (reports.ProfitAndLoss, error) {
	if rng.Inverted() {
		return reports.BuildProfitAndLoss(nil), nil
	}
	leaves, err := s.repo.LeafTotals(ctx, LeafQuery{Range: rng})
	if err != nil {
		return reports.ProfitAndLoss{}, err
	}
	return reports.BuildProfitAndLoss(leaves), nil
}

// BalanceSheet reports asset, liability and equity balances on asOf. A zero
// asOf means today.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (reports.BalanceSheet, error) {
	if asOf.IsZero() {
		asOf = s.today()
	}
	asOf = shared.NormalizeDate(asOf)
	leaves, err := s.repo.LeafTotals(ctx, LeafQuery{Range: shared.DateRange{To: &asOf}})
	if err != nil {
		return reports.BalanceSheet{}, err
	}
	return reports.BuildBalanceSheet(leaves), nil
}

// FinanceSummary builds the finance dashboard as of asOf. A zero asOf means
// today.
func (s *Service) FinanceSummary(ctx context.Context, asOf time.Time) (FinanceSummary, error) {
	if asOf.IsZero() {
		asOf = s.today()
	}
	asOf = shared.NormalizeDate(asOf)
	var out FinanceSummary
	err := s.cache.Fetch(ctx, &out, func(ctx context.Context) (any, error) {
		return s.buildSummary(ctx, asOf)
	}, "summary", asOf.Format(shared.DateLayout))
	if err != nil {
		return FinanceSummary{}, err
	}
	return out, nil
}

func (s *Service) buildSummary(ctx context.Context, asOf time.Time) (FinanceSummary, error) {
	out := FinanceSummary{AsOf: asOf}

	all, err := s.repo.LeafTotals(ctx, LeafQuery{Range: shared.DateRange{To: &asOf}})
	if err != nil {
		return out, err
	}
	out.AvailableCash = sumSubtree(all, PrefixCash, accounts.NatureDebit)
	out.Receivables = sumSubtree(all, PrefixReceivables, accounts.NatureDebit)
	out.Payables = sumSubtree(all, PrefixPayables, accounts.NatureCredit)
	out.SalariesPayable = sumSubtree(all, PrefixSalaries, accounts.NatureCredit)
	out.TaxesPayable = sumSubtree(all, PrefixTaxes, accounts.NatureCredit)

	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	month, err := s.repo.LeafTotals(ctx, LeafQuery{Range: shared.DateRange{From: &monthStart, To: &asOf}})
	if err != nil {
		return out, err
	}
	out.MonthRevenue, out.MonthExpenses = revenueAndExpenses(month)
	out.MonthResult = out.MonthRevenue.Sub(out.MonthExpenses)
	out.RevenueByAccount = revenueByAccount(month)
	out.ExpensesByCategory, err = s.expensesByCategory(ctx, month)
	if err != nil {
		return out, err
	}

	for i := evolutionMonths - 1; i >= 0; i-- {
		start := monthStart.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)
		if end.After(asOf) {
			end = asOf
		}
		leaves, err := s.repo.LeafTotals(ctx, LeafQuery{Range: shared.DateRange{From: &start, To: &end}})
		if err != nil {
			return out, err
		}
		rev, exp := revenueAndExpenses(leaves)
		out.Evolution = append(out.Evolution, MonthFigures{
			Month:    start.Format("2006-01"),
			Revenue:  rev,
			Expenses: exp,
			Result:   rev.Sub(exp),
		})
	}

	if out.EntryCount, err = s.repo.EntryCount(ctx); err != nil {
		return out, err
	}
	if out.RecentEntries, err = s.repo.RecentEntries(ctx, recentEntryLimit); err != nil {
		return out, err
	}
	return out, nil
}

// Warm precomputes unbounded subtree balances and today's summary so the
// first requests after a deploy hit the cache.
func (s *Service) Warm(ctx context.Context, prefixes []string) (int, error) {
	if len(prefixes) == 0 {
		prefixes = []string{PrefixCash, PrefixReceivables, PrefixPayables, PrefixSalaries, PrefixTaxes}
	}
	warmed := 0
	for _, p := range prefixes {
		if _, err := s.SubtreeBalance(ctx, p, shared.DateRange{}); err != nil {
			return warmed, err
		}
		warmed++
	}
	if _, err := s.FinanceSummary(ctx, time.Time{}); err != nil {
		return warmed, err
	}
	return warmed + 1, nil
}

func sumSubtree(list []reports.AccountBalance, prefix string, nature accounts.Nature) decimal.Decimal {
	total := decimal.Zero
	for _, b := range list {
		if accounts.InSubtree(b.Code, prefix) {
			total = total.Add(nature.Signed(b.Debit, b.Credit))
		}
	}
	return total
}

// revenueAndExpenses sums credits on revenue accounts and debits on expense
// accounts.
func revenueAndExpenses(list []reports.AccountBalance) (decimal.Decimal, decimal.Decimal) {
	rev, exp := decimal.Zero, decimal.Zero
	for _, b := range list {
		switch b.Type {
		case accounts.AccountTypeRevenue:
			rev = rev.Add(b.Credit)
		case accounts.AccountTypeExpense:
			exp = exp.Add(b.Debit)
		case accounts.AccountTypeAsset, accounts.AccountTypeLiability, accounts.AccountTypeEquity:
		}
	}
	return rev, exp
}

func revenueByAccount(list []reports.AccountBalance) []NamedAmount {
	var out []NamedAmount
	for _, b := range list {
		if b.Type == accounts.AccountTypeRevenue && b.Credit.IsPositive() {
			out = append(out, NamedAmount{Code: b.Code, Name: b.Description, Amount: b.Credit})
		}
	}
	return out
}

func (s *Service) expensesByCategory(ctx context.Context, list []reports.AccountBalance) ([]NamedAmount, error) {
	totals := make(map[string]decimal.Decimal)
	for _, b := range list {
		if b.Type != accounts.AccountTypeExpense || !b.Debit.IsPositive() {
			continue
		}
		cat := category(b.Code)
		totals[cat] = totals[cat].Add(b.Debit)
	}
	out := make([]NamedAmount, 0, len(totals))
	for code, amount := range totals {
		name := code
		acc, err := s.accounts.GetByCode(ctx, code)
		switch {
		case err == nil:
			name = acc.Description
		case !errors.Is(err, shared.ErrAccountNotFound):
			return nil, err
		}
		out = append(out, NamedAmount{Code: code, Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func category(code string) string {
	parts := strings.SplitN(code, ".", categorySegments+1)
	if len(parts) > categorySegments {
		parts = parts[:categorySegments]
	}
	return strings.Join(parts, ".")
}
