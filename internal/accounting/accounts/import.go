package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ImportReport summarises one chart import run.
type ImportReport struct {
	RunID    uuid.UUID           `json:"run_id"`
	Parsed   int                 `json:"parsed"`
	Created  int                 `json:"created"`
	Existing int                 `json:"existing"`
	Failed   int                 `json:"failed"`
	Errors   []string            `json:"errors,omitempty"`
	ByType   map[AccountType]int `json:"by_type"`
	ByLevel  map[int]int         `json:"by_level"`
	Duration time.Duration       `json:"duration"`
}

// Importer bulk-loads accounts from external listings.
type Importer struct {
	repo   Repository
	logger *slog.Logger
	cache  BalanceInvalidator
	now    func() time.Time
}

// NewImporter builds an Importer.
func NewImporter(repo Repository, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{repo: repo, logger: logger, now: time.Now}
}

// WithBalanceCache bumps c after an import that created accounts.
func (im *Importer) WithBalanceCache(c BalanceInvalidator) {
	im.cache = c
}

// Import creates the accounts in rows that do not exist yet. Rows are applied
// shallow-first so parents precede children; codes already present are
// skipped and malformed rows are counted as failed. Everything is written in
// one transaction.
func (im *Importer) Import(ctx context.Context, rows []ImportRow) (ImportReport, error) {
	started := im.now()
	report := ImportReport{
		RunID:   uuid.New(),
		Parsed:  len(rows),
		ByType:  make(map[AccountType]int),
		ByLevel: make(map[int]int),
	}
	logger := im.logger.With(slog.String("run_id", report.RunID.String()))
	logger.Info("chart import started", slog.Int("rows", len(rows)))

	ordered := append([]ImportRow(nil), rows...)
	sort.SliceStable(ordered, func(i, j int) bool {
		li, lj := Level(ordered[i].Code), Level(ordered[j].Code)
		if li != lj {
			return li < lj
		}
		return ordered[i].Code < ordered[j].Code
	})

	err := im.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		codes, err := tx.CodeIndex(ctx)
		if err != nil {
			return err
		}
		for _, row := range ordered {
			account, err := accountFromRow(row)
			if err != nil {
				report.Failed++
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", row.Code, err))
				continue
			}
			if _, ok := codes[account.Code]; ok {
				report.Existing++
				continue
			}
			if pc := ParentCode(account.Code); pc != "" {
				if pid, ok := codes[pc]; ok {
					account.ParentID = &pid
				}
			}
			created, err := tx.Insert(ctx, account)
			if err != nil {
				return fmt.Errorf("accounts: import %s: %w", account.Code, err)
			}
			codes[created.Code] = created.ID
			report.Created++
			report.ByType[created.Type]++
			report.ByLevel[created.Level]++
			if report.Created%100 == 0 {
				logger.Info("chart import progress", slog.Int("created", report.Created))
			}
		}
		return nil
	})
	report.Duration = im.now().Sub(started)
	if err != nil {
		logger.Error("chart import rolled back", slog.Any("error", err))
		return report, err
	}
	if report.Created > 0 && im.cache != nil {
		if err := im.cache.Bump(ctx); err != nil {
			logger.Warn("bump balance cache", slog.Any("error", err))
		}
	}
	logger.Info("chart import finished",
		slog.Int("created", report.Created),
		slog.Int("existing", report.Existing),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

func accountFromRow(row ImportRow) (Account, error) {
	if !ValidCode(row.Code) {
		return Account{}, errors.New("invalid code")
	}
	if len(row.Code) > 20 {
		return Account{}, errors.New("code longer than 20 characters")
	}
	if row.Description == "" {
		return Account{}, errors.New("missing description")
	}
	desc := row.Description
	if r := []rune(desc); len(r) > 255 {
		desc = string(r[:255])
	}
	level := Level(row.Code)
	accountType := InferType(row.Code)
	if row.Type != nil {
		if !row.Type.Valid() {
			return Account{}, fmt.Errorf("unknown account type %q", *row.Type)
		}
		accountType = *row.Type
	}
	nature := InferNature(accountType)
	if row.Nature != nil {
		if !row.Nature.Valid() {
			return Account{}, fmt.Errorf("unknown nature %q", *row.Nature)
		}
		nature = *row.Nature
	}
	accepts := InferAcceptsPostings(level, row.HasMovement())
	if row.AcceptsPostings != nil {
		accepts = *row.AcceptsPostings
	}
	return Account{
		Code:            row.Code,
		Description:     desc,
		Type:            accountType,
		Nature:          nature,
		Level:           level,
		AcceptsPostings: accepts,
		IsActive:        true,
	}, nil
}
