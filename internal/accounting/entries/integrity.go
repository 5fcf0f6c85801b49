package entries

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
)

const integrityBatch = 500

// Violation kinds reported by CheckIntegrity.
const (
	ViolationUnbalanced  = "unbalanced"
	ViolationTooFewLines = "too_few_lines"
)

// Violation describes a stored entry that breaks the ledger invariants.
type Violation struct {
	EntryID int64
	Kind    string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Lines   int
}

// IntegrityReport summarises a full ledger scan.
type IntegrityReport struct {
	Scanned     int
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Violations  []Violation
}

// Balanced reports whether the whole ledger nets to zero.
func (r IntegrityReport) Balanced() bool {
	return r.TotalDebit.Equal(r.TotalCredit)
}

// CheckIntegrity walks every stored entry in id order and recomputes its
// totals. Entries with fewer than two lines or unequal sides are reported.
func (s *Service) CheckIntegrity(ctx context.Context) (IntegrityReport, error) {
	report := IntegrityReport{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	var after int64
	for {
		batch, err := s.repo.Scan(ctx, after, integrityBatch)
		if err != nil {
			return report, err
		}
		for _, e := range batch {
			totals := e.Totals()
			report.Scanned++
			report.TotalDebit = report.TotalDebit.Add(totals.Debit)
			report.TotalCredit = report.TotalCredit.Add(totals.Credit)
			v := Violation{EntryID: e.ID, Debit: totals.Debit, Credit: totals.Credit, Lines: len(e.Lines)}
			switch {
			case len(e.Lines) < minLines:
				v.Kind = ViolationTooFewLines
			case !totals.Balanced():
				v.Kind = ViolationUnbalanced
			default:
				continue
			}
			s.logger.Warn("ledger integrity violation",
				slog.Int64("entry_id", e.ID),
				slog.String("kind", v.Kind),
				slog.String("debit", totals.Debit.StringFixed(shared.AmountScale)),
				slog.String("credit", totals.Credit.StringFixed(shared.AmountScale)))
			report.Violations = append(report.Violations, v)
		}
		if len(batch) < integrityBatch {
			return report, nil
		}
		after = batch[len(batch)-1].ID
	}
}
