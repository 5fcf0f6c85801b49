package accounts

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

type memRepo struct {
	accounts  map[int64]Account
	lines     map[int64]int64
	nextID    int64
	failCode  string
	txCount   int
	committed int
}

func newMemRepo(seed ...Account) *memRepo {
	r := &memRepo{accounts: map[int64]Account{}, lines: map[int64]int64{}}
	for _, a := range seed {
		r.accounts[a.ID] = a
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
	}
	return r
}

func (r *memRepo) Get(ctx context.Context, id int64) (Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return Account{}, shared.ErrAccountNotFound
	}
	return a, nil
}

func (r *memRepo) GetByCode(ctx context.Context, code string) (Account, error) {
	for _, a := range r.accounts {
		if a.Code == code {
			return a, nil
		}
	}
	return Account{}, shared.ErrAccountNotFound
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) ([]Account, error) {
	var out []Account
	for _, a := range r.accounts {
		if filter.Active != nil && a.IsActive != *filter.Active {
			continue
		}
		if filter.Prefix != "" && !InSubtree(a.Code, filter.Prefix) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memRepo) CodeIndex(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(r.accounts))
	for id, a := range r.accounts {
		out[a.Code] = id
	}
	return out, nil
}

// WithTx runs fn against a copy and keeps it only when fn succeeds.
func (r *memRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.txCount++
	snapshot := make(map[int64]Account, len(r.accounts))
	for k, v := range r.accounts {
		snapshot[k] = v
	}
	next := r.nextID
	if err := fn(ctx, r); err != nil {
		r.accounts = snapshot
		r.nextID = next
		return err
	}
	r.committed++
	return nil
}

func (r *memRepo) Insert(ctx context.Context, a Account) (Account, error) {
	if r.failCode != "" && a.Code == r.failCode {
		return Account{}, errors.New("insert failed")
	}
	for _, existing := range r.accounts {
		if existing.Code == a.Code {
			return Account{}, shared.ErrDuplicateCode
		}
	}
	r.nextID++
	a.ID = r.nextID
	r.accounts[a.ID] = a
	return a, nil
}

func (r *memRepo) Update(ctx context.Context, id int64, upd AccountUpdate) (Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return Account{}, shared.ErrAccountNotFound
	}
	if upd.Description != nil {
		a.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.AcceptsPostings != nil {
		a.AcceptsPostings = *upd.AcceptsPostings
	}
	if upd.Active != nil {
		a.IsActive = *upd.Active
	}
	r.accounts[id] = a
	return a, nil
}

func (r *memRepo) CountLineItems(ctx context.Context, id int64) (int64, error) {
	return r.lines[id], nil
}

func (r *memRepo) CountChildren(ctx context.Context, id int64) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.ParentID != nil && *a.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.accounts[id]; !ok {
		return shared.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func ptr[T any](v T) *T { return &v }
