package entries

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

// Direction is the side of a line item.
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// Valid reports whether d is DEBIT or CREDIT.
func (d Direction) Valid() bool {
	switch d {
	case Debit, Credit:
		return true
	}
	return false
}

// Status enumerates ledger entry lifecycle values. DRAFT and DELETED are
// never stored: drafts live only in memory and deleted entries are removed.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusPosted   Status = "POSTED"
	StatusReplaced Status = "REPLACED"
	StatusDeleted  Status = "DELETED"
)

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusPosted
	case StatusPosted, StatusReplaced:
		return next == StatusReplaced || next == StatusDeleted
	case StatusDeleted:
		return false
	}
	return false
}

// Entry is a dated accounting event owning an ordered set of line items.
type Entry struct {
	ID           int64
	Date         time.Time
	BatchNumber  *string
	ReasonCodeID int64
	Memo         *string
	UserID       *int64
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	Lines        []LineItem
}

// Totals sums the entry's line items by direction.
func (e Entry) Totals() Totals {
	t := Totals{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, l := range e.Lines {
		t.add(l.Direction, l.Amount)
	}
	return t
}

// LineItem is a single debit or credit against one account.
type LineItem struct {
	ID           int64
	EntryID      int64
	Position     int
	AccountID    int64
	Direction    Direction
	Amount       decimal.Decimal
	CostCenterID *int64
}

// LineInput is a proposed line item.
type LineInput struct {
	AccountID    int64
	Direction    Direction
	Amount       decimal.Decimal
	CostCenterID *int64
}

// CreateInput groups the fields required to post an entry.
type CreateInput struct {
	Date           time.Time
	BatchNumber    *string
	ReasonCodeID   int64
	Memo           *string
	UserID         *int64
	Lines          []LineInput
	IdempotencyKey string
}

// EntryUpdate lists the mutable header fields. Nil leaves a field unchanged;
// non-nil Lines replaces the whole line-item set.
type EntryUpdate struct {
	Date         *time.Time
	BatchNumber  *string
	ReasonCodeID *int64
	Memo         *string
	Lines        []LineInput
}

// Empty reports whether the update changes nothing.
func (u EntryUpdate) Empty() bool {
	return u.Date == nil && u.BatchNumber == nil && u.ReasonCodeID == nil && u.Memo == nil && u.Lines == nil
}

// ListFilter narrows entry listings.
type ListFilter struct {
	Range       shared.DateRange
	BatchNumber string
	Page        shared.Page
}

// Totals is the per-direction sum of a line-item set.
type Totals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (t *Totals) add(d Direction, amount decimal.Decimal) {
	switch d {
	case Debit:
		t.Debit = t.Debit.Add(amount)
	case Credit:
		t.Credit = t.Credit.Add(amount)
	}
}

// Balanced reports exact equality of the two sides.
func (t Totals) Balanced() bool {
	return t.Debit.Equal(t.Credit)
}
