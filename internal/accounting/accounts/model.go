package accounts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Nature is the side on which an account's normal balance grows.
type Nature string

const (
	NatureDebit  Nature = "DEBIT"
	NatureCredit Nature = "CREDIT"
)

// Valid reports whether n is DEBIT or CREDIT.
func (n Nature) Valid() bool {
	switch n {
	case NatureDebit, NatureCredit:
		return true
	}
	return false
}

// Signed turns debit/credit totals into a balance on the account's normal
// side: debit minus credit for DEBIT, credit minus debit for CREDIT.
func (n Nature) Signed(debit, credit decimal.Decimal) decimal.Decimal {
	switch n {
	case NatureDebit:
		return debit.Sub(credit)
	case NatureCredit:
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// Account models a chart of accounts node. ParentID refers to another
// account by id; the hierarchy is never held as live pointers.
type Account struct {
	ID              int64       `json:"id"`
	Code            string      `json:"code"`
	Description     string      `json:"description"`
	Type            AccountType `json:"type"`
	Nature          Nature      `json:"nature"`
	Level           int         `json:"level"`
	ParentID        *int64      `json:"parent_id,omitempty"`
	AcceptsPostings bool        `json:"accepts_postings"`
	IsActive        bool        `json:"is_active"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// CreateInput carries the fields accepted by Service.Create. Level 0 means
// "derive from code".
type CreateInput struct {
	Code            string      `json:"code" validate:"required,max=20"`
	Description     string      `json:"description" validate:"required,max=255"`
	Type            AccountType `json:"type" validate:"required"`
	Nature          Nature      `json:"nature" validate:"required"`
	Level           int         `json:"level" validate:"gte=0"`
	ParentID        *int64      `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	AcceptsPostings bool        `json:"accepts_postings"`
}

// AccountUpdate lists the mutable fields of an account. Nil leaves a field unchanged.
type AccountUpdate struct {
	Description     *string `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	AcceptsPostings *bool   `json:"accepts_postings,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Description == nil && u.AcceptsPostings == nil && u.Active == nil
}

// ListFilter narrows account listings.
type ListFilter struct {
	Active *bool
	Prefix string
	Page   shared.Page
}
