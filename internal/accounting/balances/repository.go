package balances

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/reports"
	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/db"
)

// Repository reads line-item aggregates.
type Repository interface {
	AccountTotals(ctx context.Context, accountID int64, rng shared.DateRange) (decimal.Decimal, decimal.Decimal, error)
	LeafTotals(ctx context.Context, q LeafQuery) ([]reports.AccountBalance, error)
	Movements(ctx context.Context, accountID int64, limit int) ([]Movement, error)
	RecentEntries(ctx context.Context, limit int) ([]EntrySummary, error)
	EntryCount(ctx context.Context) (int64, error)
}

type repository struct {
	q db.Querier
}

// NewRepository builds a pgx-backed aggregate reader.
func NewRepository(q db.Querier) Repository {
	return &repository{q: q}
}

func bounds(rng shared.DateRange) (*time.Time, *time.Time) {
	return rng.From, rng.To
}

func (r *repository) AccountTotals(ctx context.Context, accountID int64, rng shared.DateRange) (decimal.Decimal, decimal.Decimal, error) {
	from, to := bounds(rng)
	var debit, credit decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT
	COALESCE(SUM(li.amount) FILTER (WHERE li.direction='DEBIT'), 0),
	COALESCE(SUM(li.amount) FILTER (WHERE li.direction='CREDIT'), 0)
FROM line_items li
JOIN ledger_entries e ON e.id = li.entry_id
WHERE li.account_id = $1
	AND ($2::date IS NULL OR e.entry_date >= $2)
	AND ($3::date IS NULL OR e.entry_date <= $3)`, accountID, from, to).Scan(&debit, &credit)
	return debit, credit, err
}

func (r *repository) LeafTotals(ctx context.Context, q LeafQuery) ([]reports.AccountBalance, error) {
	from, to := bounds(q.Range)
	rows, err := r.q.Query(ctx, `SELECT a.id, a.code, a.description, a.type, a.nature,
	COALESCE(SUM(t.amount) FILTER (WHERE t.direction='DEBIT'), 0),
	COALESCE(SUM(t.amount) FILTER (WHERE t.direction='CREDIT'), 0)
FROM accounts a
LEFT JOIN (
	SELECT li.account_id, li.direction, li.amount
	FROM line_items li
	JOIN ledger_entries e ON e.id = li.entry_id
	WHERE ($3::date IS NULL OR e.entry_date >= $3)
		AND ($4::date IS NULL OR e.entry_date <= $4)
) t ON t.account_id = a.id
WHERE a.accepts_postings
	AND ($1::text = '' OR a.code = $1::text OR a.code LIKE $1::text || '.%')
	AND ($2::text = '' OR a.type = $2::text)
GROUP BY a.id, a.code, a.description, a.type, a.nature
ORDER BY a.code`, q.Prefix, string(q.Type), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []reports.AccountBalance
	for rows.Next() {
		b := reports.AccountBalance{Opening: decimal.Zero}
		if err := rows.Scan(&b.AccountID, &b.Code, &b.Description, &b.Type, &b.Nature, &b.Debit, &b.Credit); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repository) Movements(ctx context.Context, accountID int64, limit int) ([]Movement, error) {
	rows, err := r.q.Query(ctx, `SELECT li.id, li.entry_id, e.entry_date, e.reason_code_id, e.memo, li.direction, li.amount, li.cost_center_id
FROM line_items li
JOIN ledger_entries e ON e.id = li.entry_id
WHERE li.account_id = $1
ORDER BY e.entry_date DESC, li.id DESC
LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.LineItemID, &m.EntryID, &m.Date, &m.ReasonCodeID, &m.Memo, &m.Direction, &m.Amount, &m.CostCenterID); err != nil {
			return nil, err
		}
		m.Date = shared.NormalizeDate(m.Date)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) RecentEntries(ctx context.Context, limit int) ([]EntrySummary, error) {
	rows, err := r.q.Query(ctx, `SELECT e.id, e.entry_date, e.reason_code_id, e.memo,
	COALESCE(SUM(li.amount) FILTER (WHERE li.direction='DEBIT'), 0)
FROM ledger_entries e
LEFT JOIN line_items li ON li.entry_id = e.id
GROUP BY e.id, e.entry_date, e.reason_code_id, e.memo
ORDER BY e.entry_date DESC, e.id DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []EntrySummary
	for rows.Next() {
		var s EntrySummary
		if err := rows.Scan(&s.ID, &s.Date, &s.ReasonCodeID, &s.Memo, &s.DebitTotal); err != nil {
			return nil, err
		}
		s.Date = shared.NormalizeDate(s.Date)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) EntryCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries`).Scan(&n)
	return n, err
}
