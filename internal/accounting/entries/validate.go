package entries

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

const (
	minLines       = 2
	maxBatchNumber = 20
	maxMemo        = 500
)

// ValidateLines checks a proposed line-item set: at least two items, known
// directions, non-negative two-digit amounts below shared.AmountLimit (per line
// and per side), and exactly equal debit and credit totals. Imbalance is reported as *shared.ImbalanceError.
func ValidateLines(lines []LineInput) (Totals, error) {
	if len(lines) < minLines {
		return Totals{}, fmt.Errorf("%w: got %d", shared.ErrTooFewLines, len(lines))
	}
	totals := Totals{Debit: decimal.Zero, Credit: decimal.Zero}
	for idx, line := range lines {
		if line.AccountID <= 0 {
			return Totals{}, shared.InvalidInput("line %d missing account", idx)
		}
		if !line.Direction.Valid() {
			return Totals{}, shared.InvalidInput("line %d has unknown direction %q", idx, line.Direction)
		}
		if err := shared.ValidateAmount(line.Amount); err != nil {
			return Totals{}, fmt.Errorf("line %d: %w", idx, err)
		}
		if line.CostCenterID != nil && *line.CostCenterID <= 0 {
			return Totals{}, shared.InvalidInput("line %d has invalid cost center", idx)
		}
		totals.add(line.Direction, line.Amount)
	}
	if err := shared.CheckMagnitude(totals.Debit); err != nil {
		return Totals{}, fmt.Errorf("debit total: %w", err)
	}
	if err := shared.CheckMagnitude(totals.Credit); err != nil {
		return Totals{}, fmt.Errorf("credit total: %w", err)
	}
	if !totals.Balanced() {
		return totals, &shared.ImbalanceError{Debit: totals.Debit, Credit: totals.Credit}
	}
	return totals, nil
}

func validateHeader(batch, memo *string) error {
	if batch != nil && utf8.RuneCountInString(*batch) > maxBatchNumber {
		return shared.InvalidInput("batch number longer than %d characters", maxBatchNumber)
	}
	if memo != nil && utf8.RuneCountInString(*memo) > maxMemo {
		return shared.InvalidInput("memo longer than %d characters", maxMemo)
	}
	return nil
}

// Validate runs the header and line checks for a new entry.
func (in CreateInput) Validate() (Totals, error) {
	if in.Date.IsZero() {
		return Totals{}, shared.InvalidInput("entry date required")
	}
	if in.ReasonCodeID <= 0 {
		return Totals{}, shared.InvalidInput("reason code required")
	}
	if err := validateHeader(in.BatchNumber, in.Memo); err != nil {
		return Totals{}, err
	}
	return ValidateLines(in.Lines)
}
