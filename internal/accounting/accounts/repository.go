package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/db"
)

// Reader exposes account lookups.
type Reader interface {
	Get(ctx context.Context, id int64) (Account, error)
	GetByCode(ctx context.Context, code string) (Account, error)
	List(ctx context.Context, filter ListFilter) ([]Account, error)
	CodeIndex(ctx context.Context) (map[string]int64, error)
}

// Repository encapsulates DB operations for accounts.
type Repository interface {
	Reader
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes methods available within a transaction.
type TxRepository interface {
	Reader
	Insert(ctx context.Context, a Account) (Account, error)
	Update(ctx context.Context, id int64, upd AccountUpdate) (Account, error)
	CountLineItems(ctx context.Context, id int64) (int64, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	store
	pool db.Pool
}

// NewRepository builds a pgx-backed account repository.
func NewRepository(pool db.Pool) Repository {
	return &repository{store: store{q: pool}, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &store{q: tx})
	})
}

type store struct {
	q db.Querier
}

const accountColumns = `id, code, description, type, nature, level, parent_id, accepts_postings, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Code, &a.Description, &a.Type, &a.Nature, &a.Level, &a.ParentID, &a.AcceptsPostings, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (s *store) Get(ctx context.Context, id int64) (Account, error) {
	return scanAccount(s.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1`, id))
}

func (s *store) GetByCode(ctx context.Context, code string) (Account, error) {
	return scanAccount(s.q.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code=$1`, code))
}

func (s *store) List(ctx context.Context, filter ListFilter) ([]Account, error) {
	var (
		where []string
		args  []any
	)
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if filter.Prefix != "" {
		args = append(args, filter.Prefix)
		where = append(where, fmt.Sprintf("(code=$%[1]d OR code LIKE $%[1]d || '.%%')", len(args)))
	}
	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY code"
	if filter.Page.Limit > 0 {
		args = append(args, filter.Page.Limit, filter.Page.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *store) CodeIndex(ctx context.Context) (map[string]int64, error) {
	rows, err := s.q.Query(ctx, `SELECT code, id FROM accounts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var (
			code string
			id   int64
		)
		if err := rows.Scan(&code, &id); err != nil {
			return nil, err
		}
		out[code] = id
	}
	return out, rows.Err()
}

func (s *store) Insert(ctx context.Context, a Account) (Account, error) {
	row := s.q.QueryRow(ctx, `INSERT INTO accounts (code, description, type, nature, level, parent_id, accepts_postings, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING `+accountColumns,
		a.Code, a.Description, a.Type, a.Nature, a.Level, a.ParentID, a.AcceptsPostings, a.IsActive)
	created, err := scanAccount(row)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return Account{}, fmt.Errorf("%w: %s", shared.ErrDuplicateCode, a.Code)
		case db.IsForeignKeyViolation(err):
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return created, nil
}

func (s *store) Update(ctx context.Context, id int64, upd AccountUpdate) (Account, error) {
	row := s.q.QueryRow(ctx, `UPDATE accounts SET
	description = COALESCE($2, description),
	accepts_postings = COALESCE($3, accepts_postings),
	is_active = COALESCE($4, is_active),
	updated_at = NOW()
WHERE id=$1 RETURNING `+accountColumns, id, upd.Description, upd.AcceptsPostings, upd.Active)
	return scanAccount(row)
}

func (s *store) CountLineItems(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM line_items WHERE account_id=$1`, id).Scan(&n)
	return n, err
}

func (s *store) CountChildren(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE parent_id=$1`, id).Scan(&n)
	return n, err
}

func (s *store) Delete(ctx context.Context, id int64) error {
	cmd, err := s.q.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return shared.ReferentialError("account %d is still referenced", id)
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}
	return nil
}
