package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
	"github.com/ajr-erp/ajr/internal/accounting/entries"
)

// ChartImporter loads parsed chart rows.
type ChartImporter interface {
	Import(ctx context.Context, rows []accounts.ImportRow) (accounts.ImportReport, error)
}

// IntegrityChecker rescans the ledger.
type IntegrityChecker interface {
	CheckIntegrity(ctx context.Context) (entries.IntegrityReport, error)
}

// LedgerOpsCLI runs operator workflows against the ledger.
type LedgerOpsCLI struct {
	importer ChartImporter
	checker  IntegrityChecker
}

// NewLedgerOpsCLI constructs the helper. Either dependency may be nil when the
// matching command is not used.
func NewLedgerOpsCLI(importer ChartImporter, checker IntegrityChecker) *LedgerOpsCLI {
	return &LedgerOpsCLI{importer: importer, checker: checker}
}

// ImportOptions configures the import-chart command.
type ImportOptions struct {
	Path       string
	DryRun     bool
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// ImportCommand parses a trial-balance listing and imports its accounts.
// Exit code 10 signals rows that failed to import.
func (c *LedgerOpsCLI) ImportCommand(ctx context.Context, opts ImportOptions) int {
	stdout, stderr := writers(opts.Stdout, opts.Stderr)
	if opts.Path == "" {
		_, _ = fmt.Fprintln(stderr, "import-chart: file path is required")
		return 1
	}
	f, err := os.Open(opts.Path)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "import-chart: %v\n", err)
		return 1
	}
	defer f.Close()

	rows, err := accounts.ParseTrialBalance(f)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "import-chart: parse: %v\n", err)
		return 1
	}
	if opts.DryRun {
		_, _ = fmt.Fprintf(stdout, "parsed %d account row(s); nothing written\n", len(rows))
		return 0
	}
	if c == nil || c.importer == nil {
		_, _ = fmt.Fprintln(stderr, "import-chart: importer not configured")
		return 1
	}
	report, err := c.importer.Import(ctx, rows)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "import-chart: %v\n", err)
		return 1
	}
	if opts.JSONOutput {
		if err := json.NewEncoder(stdout).Encode(report); err != nil {
			_, _ = fmt.Fprintf(stderr, "import-chart: encode json: %v\n", err)
			return 1
		}
	} else {
		renderImportHuman(stdout, report)
	}
	if report.Failed > 0 {
		return 10
	}
	return 0
}

func renderImportHuman(out io.Writer, r accounts.ImportReport) {
	_, _ = fmt.Fprintf(out, "Import %s: parsed=%d created=%d existing=%d failed=%d in %s\n",
		r.RunID, r.Parsed, r.Created, r.Existing, r.Failed, r.Duration)
	types := make([]string, 0, len(r.ByType))
	for t := range r.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		_, _ = fmt.Fprintf(out, "  %-10s %d\n", t, r.ByType[accounts.AccountType(t)])
	}
	for _, msg := range r.Errors {
		_, _ = fmt.Fprintf(out, " ! %s\n", msg)
	}
}

// IntegrityOptions configures the integrity command.
type IntegrityOptions struct {
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// IntegritySummary is the JSON output of the integrity command.
type IntegritySummary struct {
	OK          bool                 `json:"ok"`
	Scanned     int                  `json:"scanned"`
	TotalDebit  string               `json:"total_debit"`
	TotalCredit string               `json:"total_credit"`
	Violations  []IntegrityViolation `json:"violations"`
}

// IntegrityViolation is one offending entry.
type IntegrityViolation struct {
	EntryID int64  `json:"entry_id"`
	Kind    string `json:"kind"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
	Lines   int    `json:"lines"`
}

// IntegrityCommand scans the ledger synchronously. Exit code 10 signals
// violations.
func (c *LedgerOpsCLI) IntegrityCommand(ctx context.Context, opts IntegrityOptions) int {
	stdout, stderr := writers(opts.Stdout, opts.Stderr)
	if c == nil || c.checker == nil {
		_, _ = fmt.Fprintln(stderr, "integrity: checker not configured")
		return 1
	}
	report, err := c.checker.CheckIntegrity(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "integrity: %v\n", err)
		return 1
	}
	summary := buildIntegritySummary(report)
	if opts.JSONOutput {
		if err := json.NewEncoder(stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(stderr, "integrity: encode json: %v\n", err)
			return 1
		}
	} else {
		_, _ = fmt.Fprintf(stdout, "Scanned %d entries: debit %s credit %s\n", summary.Scanned, summary.TotalDebit, summary.TotalCredit)
		if summary.OK {
			_, _ = fmt.Fprintln(stdout, "Ledger is balanced.")
		}
		for _, v := range summary.Violations {
			_, _ = fmt.Fprintf(stdout, " - entry %d %s (debit %s, credit %s, %d lines)\n", v.EntryID, v.Kind, v.Debit, v.Credit, v.Lines)
		}
	}
	if !summary.OK {
		return 10
	}
	return 0
}

func buildIntegritySummary(r entries.IntegrityReport) IntegritySummary {
	out := IntegritySummary{
		OK:          len(r.Violations) == 0 && r.Balanced(),
		Scanned:     r.Scanned,
		TotalDebit:  r.TotalDebit.StringFixed(2),
		TotalCredit: r.TotalCredit.StringFixed(2),
		Violations:  make([]IntegrityViolation, 0, len(r.Violations)),
	}
	for _, v := range r.Violations {
		out.Violations = append(out.Violations, IntegrityViolation{
			EntryID: v.EntryID,
			Kind:    v.Kind,
			Debit:   v.Debit.StringFixed(2),
			Credit:  v.Credit.StringFixed(2),
			Lines:   v.Lines,
		})
	}
	return out
}

func writers(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}
