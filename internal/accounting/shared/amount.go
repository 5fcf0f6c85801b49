package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fraction digits carried by monetary amounts.
const AmountScale = 2

// AmountLimit is the first magnitude NUMERIC(15,2) cannot store.
var AmountLimit = decimal.New(1, 13)

// ValidateAmount rejects negative amounts, amounts with more than two fraction
// digits, and amounts at or above AmountLimit.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount.String())
	}
	if err := CheckMagnitude(amount); err != nil {
		return err
	}
	if !amount.Equal(amount.Round(AmountScale)) {
		return fmt.Errorf("%w: %s has more than %d fraction digits", ErrInvalidAmount, amount.String(), AmountScale)
	}
	return nil
}

// ParseAmount parses a decimal string and enforces the amount rules.
func ParseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// FormatAmount renders an amount with exactly two fraction digits.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountScale)
}

// CheckMagnitude rejects values whose absolute value reaches AmountLimit.
func CheckMagnitude(amount decimal.Decimal) error {
	if amount.Abs().GreaterThanOrEqual(AmountLimit) {
		return fmt.Errorf("%w: %s exceeds %s", ErrInvalidAmount, amount.String(), AmountLimit.StringFixed(AmountScale))
	}
	return nil
}
