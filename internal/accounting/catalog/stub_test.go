package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	internalShared "github.com/ajr-erp/ajr/internal/shared"
)

var testKind = Kind{Entity: "reason_code", Table: "reason_codes", NotFound: shared.ErrReasonCodeNotFound}

type memRepo struct {
	items  map[int64]Item
	nextID int64
}

func newMemRepo(seed ...Item) *memRepo {
	r := &memRepo{items: map[int64]Item{}}
	for _, it := range seed {
		r.items[it.ID] = it
		if it.ID > r.nextID {
			r.nextID = it.ID
		}
	}
	return r
}

func (r *memRepo) Get(ctx context.Context, id int64) (Item, error) {
	it, ok := r.items[id]
	if !ok {
		return Item{}, testKind.NotFound
	}
	return it, nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) ([]Item, error) {
	var out []Item
	for _, it := range r.items {
		if filter.Active != nil && it.IsActive != *filter.Active {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memRepo) Insert(ctx context.Context, in CreateInput) (Item, error) {
	for _, it := range r.items {
		if it.Code == in.Code {
			return Item{}, fmt.Errorf("%w: %s %s", shared.ErrDuplicateCode, testKind.Entity, in.Code)
		}
	}
	r.nextID++
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	it := Item{ID: r.nextID, Code: in.Code, Description: in.Description, IsActive: active}
	r.items[it.ID] = it
	return it, nil
}

func (r *memRepo) Update(ctx context.Context, id int64, upd Update) (Item, error) {
	it, ok := r.items[id]
	if !ok {
		return Item{}, testKind.NotFound
	}
	if upd.Description != nil {
		it.Description = *upd.Description
	}
	if upd.Active != nil {
		it.IsActive = *upd.Active
	}
	r.items[id] = it
	return it, nil
}

type recordingAudit struct {
	logs []internalShared.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, log internalShared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}
