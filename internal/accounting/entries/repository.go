package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/db"
)

// PostingAccount is the slice of an account needed to accept a line item.
type PostingAccount struct {
	ID              int64
	Code            string
	AcceptsPostings bool
	IsActive        bool
}

// Repository encapsulates DB operations for ledger entries.
type Repository interface {
	Get(ctx context.Context, id int64) (Entry, error)
	GetLineItem(ctx context.Context, id int64) (LineItem, error)
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
	Scan(ctx context.Context, afterID int64, limit int) ([]Entry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes methods available within a transaction.
type TxRepository interface {
	LockEntry(ctx context.Context, id int64) (Entry, error)
	InsertEntry(ctx context.Context, in CreateInput) (Entry, error)
	UpdateHeader(ctx context.Context, id int64, upd EntryUpdate, status Status) (Entry, error)
	Lines(ctx context.Context, entryID int64) ([]LineItem, error)
	InsertLines(ctx context.Context, entryID int64, lines []LineInput) ([]LineItem, error)
	DeleteLines(ctx context.Context, entryID int64) error
	DeleteEntry(ctx context.Context, id int64) error

	PostingAccounts(ctx context.Context, ids []int64) (map[int64]PostingAccount, error)
	ReasonCodeExists(ctx context.Context, id int64) (bool, error)
	CostCentersExist(ctx context.Context, ids []int64) (map[int64]bool, error)
}

type repository struct {
	pool db.Pool
}

// NewRepository builds a pgx-backed entry repository.
func NewRepository(pool db.Pool) Repository {
	return &repository{pool: pool}
}

const entryColumns = `id, entry_date, batch_number, reason_code_id, memo, user_id, status, created_at, updated_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Date, &e.BatchNumber, &e.ReasonCodeID, &e.Memo, &e.UserID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, shared.ErrEntryNotFound
		}
		return Entry{}, err
	}
	e.Date = shared.NormalizeDate(e.Date)
	return e, nil
}

const lineColumns = `id, entry_id, position, account_id, direction, amount, cost_center_id`

func scanLine(row pgx.Row) (LineItem, error) {
	var l LineItem
	err := row.Scan(&l.ID, &l.EntryID, &l.Position, &l.AccountID, &l.Direction, &l.Amount, &l.CostCenterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LineItem{}, shared.ErrLineItemNotFound
		}
		return LineItem{}, err
	}
	return l, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE id=$1`, id))
	if err != nil {
		return Entry{}, err
	}
	lines, err := loadLines(ctx, r.pool, []int64{id})
	if err != nil {
		return Entry{}, err
	}
	entry.Lines = lines[id]
	return entry, nil
}

func (r *repository) GetLineItem(ctx context.Context, id int64) (LineItem, error) {
	return scanLine(r.pool.QueryRow(ctx, `SELECT `+lineColumns+` FROM line_items WHERE id=$1`, id))
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if filter.Range.From != nil {
		args = append(args, *filter.Range.From)
		where = append(where, fmt.Sprintf("entry_date >= $%d", len(args)))
	}
	if filter.Range.To != nil {
		args = append(args, *filter.Range.To)
		where = append(where, fmt.Sprintf("entry_date <= $%d", len(args)))
	}
	if filter.BatchNumber != "" {
		args = append(args, filter.BatchNumber)
		where = append(where, fmt.Sprintf("batch_number = $%d", len(args)))
	}
	page := filter.Page
	if page.Limit <= 0 {
		page = shared.NewPage(page.Offset, 0)
	}
	query := `SELECT ` + entryColumns + ` FROM ledger_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(" ORDER BY entry_date DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return queryEntries(ctx, r.pool, query, args...)
}

// Scan returns up to limit entries with id greater than afterID in id order.
func (r *repository) Scan(ctx context.Context, afterID int64, limit int) ([]Entry, error) {
	return queryEntries(ctx, r.pool, `SELECT `+entryColumns+` FROM ledger_entries WHERE id > $1 ORDER BY id LIMIT $2`, afterID, limit)
}

func queryEntries(ctx context.Context, q db.Querier, query string, args ...any) ([]Entry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var (
		out []Entry
		ids []int64
	)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, e)
		ids = append(ids, e.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	lines, err := loadLines(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	return out, nil
}

func loadLines(ctx context.Context, q db.Querier, entryIDs []int64) (map[int64][]LineItem, error) {
	rows, err := q.Query(ctx, `SELECT `+lineColumns+` FROM line_items WHERE entry_id = ANY($1) ORDER BY entry_id, position`, entryIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]LineItem, len(entryIDs))
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	return out, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) LockEntry(ctx context.Context, id int64) (Entry, error) {
	return scanEntry(r.tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE id=$1 FOR UPDATE`, id))
}

func (r *txRepository) InsertEntry(ctx context.Context, in CreateInput) (Entry, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO ledger_entries (entry_date, batch_number, reason_code_id, memo, user_id, status)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING `+entryColumns,
		shared.NormalizeDate(in.Date), in.BatchNumber, in.ReasonCodeID, in.Memo, in.UserID, StatusPosted)
	entry, err := scanEntry(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Entry{}, shared.ErrReasonCodeNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

func (r *txRepository) UpdateHeader(ctx context.Context, id int64, upd EntryUpdate, status Status) (Entry, error) {
	var date any
	if upd.Date != nil {
		date = shared.NormalizeDate(*upd.Date)
	}
	row := r.tx.QueryRow(ctx, `UPDATE ledger_entries SET
	entry_date = COALESCE($2, entry_date),
	batch_number = COALESCE($3, batch_number),
	reason_code_id = COALESCE($4, reason_code_id),
	memo = COALESCE($5, memo),
	status = $6,
	updated_at = NOW()
WHERE id=$1 RETURNING `+entryColumns, id, date, upd.BatchNumber, upd.ReasonCodeID, upd.Memo, status)
	entry, err := scanEntry(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Entry{}, shared.ErrReasonCodeNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

func (r *txRepository) Lines(ctx context.Context, entryID int64) ([]LineItem, error) {
	lines, err := loadLines(ctx, r.tx, []int64{entryID})
	if err != nil {
		return nil, err
	}
	return lines[entryID], nil
}

func (r *txRepository) InsertLines(ctx context.Context, entryID int64, lines []LineInput) ([]LineItem, error) {
	out := make([]LineItem, 0, len(lines))
	for idx, line := range lines {
		item := LineItem{
			EntryID:      entryID,
			Position:     idx + 1,
			AccountID:    line.AccountID,
			Direction:    line.Direction,
			Amount:       line.Amount,
			CostCenterID: line.CostCenterID,
		}
		err := r.tx.QueryRow(ctx, `INSERT INTO line_items (entry_id, position, account_id, direction, amount, cost_center_id)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`, entryID, item.Position, line.AccountID, line.Direction, line.Amount, line.CostCenterID).Scan(&item.ID)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return nil, fmt.Errorf("line %d: %w", idx, shared.ReferentialError("account or cost center missing"))
			}
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *txRepository) DeleteLines(ctx context.Context, entryID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM line_items WHERE entry_id=$1`, entryID)
	return err
}

func (r *txRepository) DeleteEntry(ctx context.Context, id int64) error {
	cmd, err := r.tx.Exec(ctx, `DELETE FROM ledger_entries WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrEntryNotFound
	}
	return nil
}

func (r *txRepository) PostingAccounts(ctx context.Context, ids []int64) (map[int64]PostingAccount, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, code, accepts_postings, is_active FROM accounts WHERE id = ANY($1) FOR SHARE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]PostingAccount, len(ids))
	for rows.Next() {
		var a PostingAccount
		if err := rows.Scan(&a.ID, &a.Code, &a.AcceptsPostings, &a.IsActive); err != nil {
			return nil, err
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

func (r *txRepository) ReasonCodeExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reason_codes WHERE id=$1)`, id).Scan(&ok)
	return ok, err
}

func (r *txRepository) CostCentersExist(ctx context.Context, ids []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.tx.Query(ctx, `SELECT id FROM cost_centers WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}
