package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/db"
)

// Repository encapsulates DB operations for one registry.
type Repository interface {
	Get(ctx context.Context, id int64) (Item, error)
	List(ctx context.Context, filter ListFilter) ([]Item, error)
	Insert(ctx context.Context, in CreateInput) (Item, error)
	Update(ctx context.Context, id int64, upd Update) (Item, error)
}

type repository struct {
	q    db.Querier
	kind Kind
}

// NewRepository builds a pgx-backed registry repository.
func NewRepository(q db.Querier, kind Kind) Repository {
	return &repository{q: q, kind: kind}
}

func (r *repository) scan(row pgx.Row) (Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Code, &it.Description, &it.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, r.kind.NotFound
		}
		return Item{}, err
	}
	return it, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Item, error) {
	return r.scan(r.q.QueryRow(ctx, `SELECT id, code, description, is_active FROM `+r.kind.Table+` WHERE id=$1`, id))
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Item, error) {
	if filter.Page.Limit <= 0 {
		filter.Page = shared.NewPage(filter.Page.Offset, 0)
	}
	rows, err := r.q.Query(ctx, `SELECT id, code, description, is_active FROM `+r.kind.Table+`
WHERE ($1::boolean IS NULL OR is_active = $1) ORDER BY code LIMIT $2 OFFSET $3`,
		filter.Active, filter.Page.Limit, filter.Page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		it, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *repository) Insert(ctx context.Context, in CreateInput) (Item, error) {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	it, err := r.scan(r.q.QueryRow(ctx, `INSERT INTO `+r.kind.Table+` (code, description, is_active) VALUES ($1,$2,$3)
RETURNING id, code, description, is_active`, in.Code, in.Description, active))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Item{}, fmt.Errorf("%w: %s %s", shared.ErrDuplicateCode, r.kind.Entity, in.Code)
		}
		return Item{}, err
	}
	return it, nil
}

func (r *repository) Update(ctx context.Context, id int64, upd Update) (Item, error) {
	return r.scan(r.q.QueryRow(ctx, `UPDATE `+r.kind.Table+` SET
	description = COALESCE($2, description),
	is_active = COALESCE($3, is_active)
WHERE id=$1 RETURNING id, code, description, is_active`, id, upd.Description, upd.Active))
}
