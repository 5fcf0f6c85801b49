package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/httpx"
	internalShared "github.com/ajr-erp/ajr/internal/shared"
)

// AuditPort records chart of accounts changes.
type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

// BalanceInvalidator drops cached balances after chart changes.
type BalanceInvalidator interface {
	Bump(ctx context.Context) error
}

// Service manages the chart of accounts.
type Service struct {
	repo   Repository
	audit  AuditPort
	cache  BalanceInvalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires a Service. audit may be nil.
func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, logger: slog.Default(), now: time.Now}
}

// WithLogger sets the logger used for audit and cache failures.
func (s *Service) WithLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// WithBalanceCache bumps c after every committed chart change, since subtree
// balances carry the leaf count.
func (s *Service) WithBalanceCache(c BalanceInvalidator) {
	s.cache = c
}

// WithNow overrides the clock used for audit timestamps.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	return s.repo.Get(ctx, id)
}

// GetByCode returns an account by its dotted code.
func (s *Service) GetByCode(ctx context.Context, code string) (Account, error) {
	if !ValidCode(code) {
		return Account{}, fmt.Errorf("%w: %q", shared.ErrInvalidCode, code)
	}
	return s.repo.GetByCode(ctx, code)
}

// List returns accounts ordered by code.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Account, error) {
	if filter.Prefix != "" && !ValidCode(filter.Prefix) {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidCode, filter.Prefix)
	}
	return s.repo.List(ctx, filter)
}

// Chart loads every account into an id-indexed Chart.
func (s *Service) Chart(ctx context.Context) (*Chart, error) {
	list, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	return NewChart(list), nil
}

// Create validates and stores a new account. An explicit parent must exist
// and carry ParentCode(code); without one the parent is looked up by code and
// left empty when absent.
func (s *Service) Create(ctx context.Context, in CreateInput) (Account, error) {
	if err := httpx.Validate(in); err != nil {
		return Account{}, err
	}
	if !ValidCode(in.Code) {
		return Account{}, fmt.Errorf("%w: %q", shared.ErrInvalidCode, in.Code)
	}
	if !in.Type.Valid() {
		return Account{}, shared.InvalidInput("unknown account type %q", in.Type)
	}
	if !in.Nature.Valid() {
		return Account{}, shared.InvalidInput("unknown nature %q", in.Nature)
	}
	level := Level(in.Code)
	if in.Level != 0 && in.Level != level {
		return Account{}, shared.InvalidInput("level %d does not match code %s (level %d)", in.Level, in.Code, level)
	}
	account := Account{
		Code:            in.Code,
		Description:     in.Description,
		Type:            in.Type,
		Nature:          in.Nature,
		Level:           level,
		AcceptsPostings: in.AcceptsPostings,
		IsActive:        true,
	}
	var created Account
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		parentID, err := resolveParent(ctx, tx, in.Code, in.ParentID)
		if err != nil {
			return err
		}
		account.ParentID = parentID
		created, err = tx.Insert(ctx, account)
		return err
	})
	if err != nil {
		return Account{}, err
	}
	s.record(ctx, "account.create", created.ID, map[string]any{"code": created.Code})
	return created, nil
}

func resolveParent(ctx context.Context, tx Reader, code string, explicit *int64) (*int64, error) {
	want := ParentCode(code)
	if explicit != nil {
		parent, err := tx.Get(ctx, *explicit)
		if err != nil {
			return nil, err
		}
		if parent.Code != want {
			return nil, shared.InvalidInput("parent %s is not the parent of %s", parent.Code, code)
		}
		return &parent.ID, nil
	}
	if want == "" {
		return nil, nil
	}
	parent, err := tx.GetByCode(ctx, want)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &parent.ID, nil
}

// Update applies the non-nil fields of upd. Turning postings off is refused
// while line items still reference the account.
func (s *Service) Update(ctx context.Context, id int64, upd AccountUpdate) (Account, error) {
	if err := httpx.Validate(upd); err != nil {
		return Account{}, err
	}
	if upd.Empty() {
		return s.repo.Get(ctx, id)
	}
	var updated Account
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if upd.AcceptsPostings != nil && !*upd.AcceptsPostings && current.AcceptsPostings {
			n, err := tx.CountLineItems(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return shared.ReferentialError("account %s has %d line items", current.Code, n)
			}
		}
		updated, err = tx.Update(ctx, id, upd)
		return err
	})
	if err != nil {
		return Account{}, err
	}
	s.record(ctx, "account.update", id, nil)
	return updated, nil
}

// Deactivate clears the active flag.
func (s *Service) Deactivate(ctx context.Context, id int64) (Account, error) {
	inactive := false
	return s.Update(ctx, id, AccountUpdate{Active: &inactive})
}

// Purge hard-deletes an account that has no line items and no children.
func (s *Service) Purge(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		lines, err := tx.CountLineItems(ctx, id)
		if err != nil {
			return err
		}
		if lines > 0 {
			return shared.ReferentialError("account %s has %d line items", current.Code, lines)
		}
		kids, err := tx.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if kids > 0 {
			return shared.ReferentialError("account %s has %d child accounts", current.Code, kids)
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.record(ctx, "account.purge", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("bump balance cache", slog.Int64("account_id", id), slog.Any("error", err))
		}
	}
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, internalShared.AuditLog{
		ActorID:  internalShared.ActorFromContext(ctx),
		Action:   action,
		Entity:   "account",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
		At:       s.now(),
	}); err != nil {
		s.logger.Warn("record audit", slog.String("action", action), slog.Int64("account_id", id), slog.Any("error", err))
	}
}
