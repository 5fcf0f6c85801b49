package entries

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/httpx"
)

func TestValidateLinesBalanced(t *testing.T) {
	totals, err := ValidateLines([]LineInput{
		debit(10, "300.00"),
		debit(10, "200.00"),
		credit(20, "500.00"),
	})
	require.NoError(t, err)
	assert.True(t, totals.Debit.Equal(amt("500")))
	assert.True(t, totals.Balanced())
}

func TestValidateLinesRejections(t *testing.T) {
	cases := []struct {
		name  string
		lines []LineInput
		want  error
	}{
		{"empty", nil, shared.ErrTooFewLines},
		{"single line", []LineInput{debit(10, "1.00")}, shared.ErrTooFewLines},
		{"unbalanced", []LineInput{debit(10, "100.00"), credit(20, "99.99")}, shared.ErrUnbalanced},
		{"negative", []LineInput{debit(10, "-1.00"), credit(20, "-1.00")}, shared.ErrInvalidAmount},
		{"three decimals", []LineInput{debit(10, "1.005"), credit(20, "1.005")}, shared.ErrInvalidAmount},
		{"bad direction", []LineInput{{AccountID: 10, Direction: "SIDEWAYS", Amount: amt("1")}, credit(20, "1")}, shared.ErrInvalidInput},
		{"missing account", []LineInput{debit(0, "1"), credit(20, "1")}, shared.ErrInvalidInput},
		{"amount overflows column", []LineInput{debit(10, "100000000000000.00"), credit(20, "100000000000000.00")}, shared.ErrInvalidAmount},
		{"debit total overflows", []LineInput{debit(10, "6000000000000.00"), debit(10, "4000000000000.00"), credit(20, "9999999999999.99"), credit(20, "0.01")}, shared.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateLines(tc.lines)
			require.Error(t, err)
			assert.Truef(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestImbalanceCarriesTotals(t *testing.T) {
	_, err := ValidateLines([]LineInput{debit(10, "100.00"), credit(20, "40.00"), credit(20, "50.00")})
	imb, ok := IsImbalance(err)
	require.True(t, ok)
	assert.True(t, imb.Debit.Equal(amt("100")))
	assert.True(t, imb.Credit.Equal(amt("90")))
	assert.True(t, errors.Is(err, httpx.ErrUnprocessable))
}

func TestValidateLinesZeroAmountsBalance(t *testing.T) {
	_, err := ValidateLines([]LineInput{
		{AccountID: 10, Direction: Debit, Amount: decimal.Zero},
		{AccountID: 20, Direction: Credit, Amount: decimal.Zero},
	})
	assert.NoError(t, err)
}

func TestCreateInputValidateHeader(t *testing.T) {
	lines := []LineInput{debit(10, "1"), credit(20, "1")}
	long := strings.Repeat("x", maxBatchNumber+1)

	_, err := CreateInput{ReasonCodeID: 1, Lines: lines}.Validate()
	assert.True(t, errors.Is(err, shared.ErrInvalidInput), "missing date")

	_, err = CreateInput{Date: fixedNow, Lines: lines}.Validate()
	assert.True(t, errors.Is(err, shared.ErrInvalidInput), "missing reason")

	_, err = CreateInput{Date: fixedNow, ReasonCodeID: 1, BatchNumber: &long, Lines: lines}.Validate()
	assert.True(t, errors.Is(err, shared.ErrInvalidInput), "long batch")
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusDraft.CanTransition(StatusPosted))
	assert.False(t, StatusDraft.CanTransition(StatusDeleted))
	assert.True(t, StatusPosted.CanTransition(StatusReplaced))
	assert.True(t, StatusReplaced.CanTransition(StatusReplaced))
	assert.True(t, StatusReplaced.CanTransition(StatusDeleted))
	assert.False(t, StatusDeleted.CanTransition(StatusPosted))
}
