package shared

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/platform/httpx"
)

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = fmt.Errorf("accounting: line items must balance: %w", httpx.ErrUnprocessable)
	// ErrTooFewLines indicates less than two line items.
	ErrTooFewLines = fmt.Errorf("accounting: entry requires at least two line items: %w", httpx.ErrUnprocessable)
	// ErrDuplicateCode indicates a code collision on create.
	ErrDuplicateCode = fmt.Errorf("accounting: code already registered: %w", httpx.ErrDuplicate)
	// ErrInvalidAmount indicates a negative amount or more than two fraction digits.
	ErrInvalidAmount = fmt.Errorf("accounting: invalid amount: %w", httpx.ErrValidation)
	// ErrInvalidCode indicates an account code outside the dotted numeric form.
	ErrInvalidCode = fmt.Errorf("accounting: invalid account code: %w", httpx.ErrValidation)
	// ErrInvalidInput covers malformed fields that are not amounts or codes.
	ErrInvalidInput = fmt.Errorf("accounting: invalid input: %w", httpx.ErrValidation)

	// ErrAccountNotFound indicates a missing account.
	ErrAccountNotFound = fmt.Errorf("accounting: account not found: %w", httpx.ErrNotFound)
	// ErrEntryNotFound indicates a missing ledger entry.
	ErrEntryNotFound = fmt.Errorf("accounting: ledger entry not found: %w", httpx.ErrNotFound)
	// ErrLineItemNotFound indicates a missing line item.
	ErrLineItemNotFound = fmt.Errorf("accounting: line item not found: %w", httpx.ErrNotFound)
	// ErrReasonCodeNotFound indicates a missing reason code.
	ErrReasonCodeNotFound = fmt.Errorf("accounting: reason code not found: %w", httpx.ErrNotFound)
	// ErrCostCenterNotFound indicates a missing cost center.
	ErrCostCenterNotFound = fmt.Errorf("accounting: cost center not found: %w", httpx.ErrNotFound)

	// ErrInvalidStatus indicates a lifecycle transition that is not allowed.
	ErrInvalidStatus = fmt.Errorf("accounting: invalid entry status transition: %w", httpx.ErrConflict)

	// ErrReferentialIntegrity covers postings to non-leaf accounts and deletes of referenced rows.
	ErrReferentialIntegrity = fmt.Errorf("accounting: referential integrity violated: %w", httpx.ErrConflict)
)

// ImbalanceError reports the computed totals of an unbalanced line-item set.
type ImbalanceError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("accounting: line items must balance: debits (%s) != credits (%s)",
		e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}

// Is lets errors.Is match ErrUnbalanced and the transport kind behind it.
func (e *ImbalanceError) Is(target error) bool {
	return target == ErrUnbalanced || target == httpx.ErrUnprocessable
}

// Difference returns debit minus credit.
func (e *ImbalanceError) Difference() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// ProblemExtensions exposes the totals to HTTP callers.
func (e *ImbalanceError) ProblemExtensions() map[string]any {
	return map[string]any{
		"debit_total":  e.Debit.StringFixed(2),
		"credit_total": e.Credit.StringFixed(2),
		"difference":   e.Difference().StringFixed(2),
	}
}

// ReferentialError wraps ErrReferentialIntegrity with a reason.
func ReferentialError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrReferentialIntegrity, fmt.Sprintf(format, args...))
}

// InvalidInput wraps ErrInvalidInput with a reason.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err is any accounting not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, httpx.ErrNotFound)
}
