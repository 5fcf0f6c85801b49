package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const listing = `BALANCETE DE VERIFICACAO
CODIGO  NOME                      ANTERIOR     DEBITOS     CREDITOS     ATUAL
-------------------------------------------------------------------------------
1       ATIVO                     1.230.737,43 10.000,00   2.500,00     1.238.237,43
1.1     ATIVO CIRCULANTE
1.1.1.01 Caixa Geral              0,00         3.450,00    0,00         3.450,00
2.1.1.01 Fornecedores             (3.450,00)   0,00        0,00         (3.450,00)

4.1.01  Receita de Serviços
`

func TestParseTrialBalance(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(listing)
	require.NoError(t, err)

	rows, err := ParseTrialBalance(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, "1", rows[0].Code)
	assert.Equal(t, "ATIVO", rows[0].Description)
	assert.True(t, rows[0].PreviousBalance.Equal(decimal.RequireFromString("1230737.43")))
	assert.True(t, rows[0].Debits.Equal(decimal.RequireFromString("10000")))
	assert.True(t, rows[0].CurrentBalance.Equal(decimal.RequireFromString("1238237.43")))

	assert.Equal(t, "ATIVO CIRCULANTE", rows[1].Description)
	assert.False(t, rows[1].HasMovement())

	assert.Equal(t, "1.1.1.01", rows[2].Code)
	assert.True(t, rows[2].HasMovement())

	assert.True(t, rows[3].CurrentBalance.Equal(decimal.RequireFromString("-3450")))

	assert.Equal(t, "Receita de Serviços", rows[4].Description, "latin-1 input is decoded")
}

func TestParseTrialBalanceEmpty(t *testing.T) {
	rows, err := ParseTrialBalance(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseListingAmount(t *testing.T) {
	cases := map[string]string{
		"":             "0",
		"0,00":         "0",
		"3.450,00":     "3450",
		"1.230.737,43": "1230737.43",
		"(12,50)":      "-12.5",
		"-7,10":        "-7.1",
	}
	for raw, want := range cases {
		got, err := ParseListingAmount(raw)
		require.NoErrorf(t, err, "raw %q", raw)
		assert.Truef(t, got.Equal(decimal.RequireFromString(want)), "raw %q got %s", raw, got)
	}
	_, err := ParseListingAmount("abc")
	assert.Error(t, err)
}
