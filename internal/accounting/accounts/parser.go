package accounts

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// ImportRow is one account read from an external listing. Type, Nature and
// AcceptsPostings are inferred at import time when nil.
type ImportRow struct {
	Code            string
	Description     string
	PreviousBalance decimal.Decimal
	Debits          decimal.Decimal
	Credits         decimal.Decimal
	CurrentBalance  decimal.Decimal
	Type            *AccountType
	Nature          *Nature
	AcceptsPostings *bool
}

// HasMovement reports whether the row carries any non-zero balance or movement.
func (r ImportRow) HasMovement() bool {
	return !r.CurrentBalance.IsZero() || !r.Debits.IsZero() || !r.Credits.IsZero()
}

const valueToken = `(?:\s+([\d.,\-()]+))?`

var listingLine = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+(.+?)` + valueToken + valueToken + valueToken + valueToken + `$`)

// ParseTrialBalance reads a Latin-1 trial balance listing, one account per
// line: code, name, then up to four amounts (previous balance, debits,
// credits, current balance) in 1.234,56 notation. Headers, separators and
// lines that do not start with a code are skipped.
func ParseTrialBalance(r io.Reader) ([]ImportRow, error) {
	scanner := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var rows []ImportRow
	for scanner.Scan() {
		row, ok := parseListingLine(scanner.Text())
		if ok {
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("accounts: read listing: %w", err)
	}
	return rows, nil
}

func parseListingLine(line string) (ImportRow, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.Contains(line, "NOME") || strings.Contains(line, "---") || strings.Contains(line, "BALANCETE") {
		return ImportRow{}, false
	}
	m := listingLine.FindStringSubmatch(line)
	if m == nil {
		return ImportRow{}, false
	}
	row := ImportRow{
		Code:        m[1],
		Description: strings.TrimSpace(m[2]),
	}
	// unreadable amounts count as zero
	values := make([]decimal.Decimal, 4)
	for i := range values {
		v, err := ParseListingAmount(m[3+i])
		if err != nil {
			continue
		}
		values[i] = v
	}
	row.PreviousBalance, row.Debits, row.Credits, row.CurrentBalance = values[0], values[1], values[2], values[3]
	return row, true
}

// ParseListingAmount converts "1.230.737,43" or "(3.450,00)" to a decimal.
// Empty input is zero.
func ParseListingAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	negative := strings.Contains(raw, "(")
	raw = strings.NewReplacer(".", "", "(", "", ")", "").Replace(raw)
	raw = strings.Replace(raw, ",", ".", 1)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("accounts: amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
