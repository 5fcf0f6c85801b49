package entries

import (
	"context"
	"maps"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	internalShared "github.com/ajr-erp/ajr/internal/shared"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type memStore struct {
	entries   map[int64]Entry
	lines     map[int64]LineItem
	accounts  map[int64]PostingAccount
	reasons   map[int64]bool
	centers   map[int64]bool
	nextEntry int64
	nextLine  int64
	committed int
}

func newMemStore() *memStore {
	return &memStore{
		entries: map[int64]Entry{},
		lines:   map[int64]LineItem{},
		accounts: map[int64]PostingAccount{
			10: {ID: 10, Code: "1.1.01", AcceptsPostings: true, IsActive: true},
			20: {ID: 20, Code: "4.1.01", AcceptsPostings: true, IsActive: true},
			30: {ID: 30, Code: "1.1", AcceptsPostings: false, IsActive: true},
			40: {ID: 40, Code: "1.1.02", AcceptsPostings: true, IsActive: false},
		},
		reasons: map[int64]bool{1: true},
		centers: map[int64]bool{7: true},
	}
}

func (m *memStore) entryLines(id int64) []LineItem {
	var out []LineItem
	for _, l := range m.lines {
		if l.EntryID == id {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (m *memStore) Get(ctx context.Context, id int64) (Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, shared.ErrEntryNotFound
	}
	e.Lines = m.entryLines(id)
	return e, nil
}

func (m *memStore) GetLineItem(ctx context.Context, id int64) (LineItem, error) {
	l, ok := m.lines[id]
	if !ok {
		return LineItem{}, shared.ErrLineItemNotFound
	}
	return l, nil
}

func (m *memStore) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	var out []Entry
	for id := range m.entries {
		e, _ := m.Get(ctx, id)
		if !filter.Range.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) Scan(ctx context.Context, afterID int64, limit int) ([]Entry, error) {
	var ids []int64
	for id := range m.entries {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		e, _ := m.Get(ctx, id)
		out = append(out, e)
	}
	return out, nil
}

// WithTx restores the previous state when fn fails.
func (m *memStore) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	entries, lines := maps.Clone(m.entries), maps.Clone(m.lines)
	nextEntry, nextLine := m.nextEntry, m.nextLine
	if err := fn(ctx, m); err != nil {
		m.entries, m.lines = entries, lines
		m.nextEntry, m.nextLine = nextEntry, nextLine
		return err
	}
	m.committed++
	return nil
}

func (m *memStore) LockEntry(ctx context.Context, id int64) (Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, shared.ErrEntryNotFound
	}
	return e, nil
}

func (m *memStore) InsertEntry(ctx context.Context, in CreateInput) (Entry, error) {
	m.nextEntry++
	e := Entry{
		ID:           m.nextEntry,
		Date:         shared.NormalizeDate(in.Date),
		BatchNumber:  in.BatchNumber,
		ReasonCodeID: in.ReasonCodeID,
		Memo:         in.Memo,
		UserID:       in.UserID,
		Status:       StatusPosted,
		CreatedAt:    fixedNow,
	}
	m.entries[e.ID] = e
	return e, nil
}

func (m *memStore) UpdateHeader(ctx context.Context, id int64, upd EntryUpdate, status Status) (Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, shared.ErrEntryNotFound
	}
	if upd.Date != nil {
		e.Date = shared.NormalizeDate(*upd.Date)
	}
	if upd.BatchNumber != nil {
		e.BatchNumber = upd.BatchNumber
	}
	if upd.ReasonCodeID != nil {
		e.ReasonCodeID = *upd.ReasonCodeID
	}
	if upd.Memo != nil {
		e.Memo = upd.Memo
	}
	e.Status = status
	updated := fixedNow
	e.UpdatedAt = &updated
	m.entries[id] = e
	return e, nil
}

func (m *memStore) Lines(ctx context.Context, entryID int64) ([]LineItem, error) {
	return m.entryLines(entryID), nil
}

func (m *memStore) InsertLines(ctx context.Context, entryID int64, lines []LineInput) ([]LineItem, error) {
	out := make([]LineItem, 0, len(lines))
	for idx, l := range lines {
		m.nextLine++
		item := LineItem{
			ID:           m.nextLine,
			EntryID:      entryID,
			Position:     idx + 1,
			AccountID:    l.AccountID,
			Direction:    l.Direction,
			Amount:       l.Amount,
			CostCenterID: l.CostCenterID,
		}
		m.lines[item.ID] = item
		out = append(out, item)
	}
	return out, nil
}

func (m *memStore) DeleteLines(ctx context.Context, entryID int64) error {
	for id, l := range m.lines {
		if l.EntryID == entryID {
			delete(m.lines, id)
		}
	}
	return nil
}

func (m *memStore) DeleteEntry(ctx context.Context, id int64) error {
	if _, ok := m.entries[id]; !ok {
		return shared.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memStore) PostingAccounts(ctx context.Context, ids []int64) (map[int64]PostingAccount, error) {
	out := map[int64]PostingAccount{}
	for _, id := range ids {
		if a, ok := m.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (m *memStore) ReasonCodeExists(ctx context.Context, id int64) (bool, error) {
	return m.reasons[id], nil
}

func (m *memStore) CostCentersExist(ctx context.Context, ids []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range ids {
		if m.centers[id] {
			out[id] = true
		}
	}
	return out, nil
}

// seedEntry stores an entry directly, bypassing validation.
func (m *memStore) seedEntry(lines ...LineInput) int64 {
	e, _ := m.InsertEntry(context.Background(), CreateInput{Date: fixedNow, ReasonCodeID: 1})
	_, _ = m.InsertLines(context.Background(), e.ID, lines)
	return e.ID
}

type recordingAudit struct {
	logs []internalShared.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, log internalShared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type countingCache struct{ bumps int }

func (c *countingCache) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

type memIdempotency struct {
	keys map[string]bool
}

func (m *memIdempotency) CheckAndInsert(ctx context.Context, key, module string) error {
	if m.keys[module+":"+key] {
		return internalShared.ErrIdempotencyConflict
	}
	m.keys[module+":"+key] = true
	return nil
}

func (m *memIdempotency) Delete(ctx context.Context, key, module string) error {
	delete(m.keys, module+":"+key)
	return nil
}

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func debit(account int64, amount string) LineInput {
	return LineInput{AccountID: account, Direction: Debit, Amount: amt(amount)}
}

func credit(account int64, amount string) LineInput {
	return LineInput{AccountID: account, Direction: Credit, Amount: amt(amount)}
}
