package entries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	internalShared "github.com/ajr-erp/ajr/internal/shared"
)

const idempotencyModule = "ledger_entry"

// AuditPort records entry mutations.
type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

// IdempotencyPort claims request keys for create calls.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// BalanceInvalidator drops cached balances after a committed write.
type BalanceInvalidator interface {
	Bump(ctx context.Context) error
}

// MutationRecorder counts committed mutations.
type MutationRecorder interface {
	EntryMutation(action string)
}

// Service posts, replaces and removes ledger entries.
type Service struct {
	repo        Repository
	logger      *slog.Logger
	audit       AuditPort
	idempotency IdempotencyPort
	cache       BalanceInvalidator
	metrics     MutationRecorder
	now         func() time.Time
}

// Option configures optional collaborators.
type Option func(*Service)

// WithAudit records mutations through a.
func WithAudit(a AuditPort) Option { return func(s *Service) { s.audit = a } }

// WithIdempotency enables Idempotency-Key handling on Create.
func WithIdempotency(p IdempotencyPort) Option { return func(s *Service) { s.idempotency = p } }

// WithBalanceCache bumps c after each committed write.
func WithBalanceCache(c BalanceInvalidator) Option { return func(s *Service) { s.cache = c } }

// WithMetrics counts committed mutations on m.
func WithMetrics(m MutationRecorder) Option { return func(s *Service) { s.metrics = m } }

// NewService wires a Service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithNow overrides the clock used for audit timestamps.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Get returns an entry with its ordered line items.
func (s *Service) Get(ctx context.Context, id int64) (Entry, error) {
	return s.repo.Get(ctx, id)
}

// GetLineItem returns a single line item. Items of deleted or replaced
// entries are gone.
func (s *Service) GetLineItem(ctx context.Context, id int64) (LineItem, error) {
	return s.repo.GetLineItem(ctx, id)
}

// List returns entries newest first. An inverted range yields nothing.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Entry, error) {
	if filter.Range.Inverted() {
		return nil, nil
	}
	return s.repo.List(ctx, filter)
}

// Create validates and posts a new entry with its line items in one
// transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (Entry, error) {
	if _, err := in.Validate(); err != nil {
		return Entry{}, err
	}
	claimed, err := s.claim(ctx, in.IdempotencyKey)
	if err != nil {
		return Entry{}, err
	}
	var entry Entry
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := checkReasonCode(ctx, tx, in.ReasonCodeID); err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, in.Lines); err != nil {
			return err
		}
		inserted, err := tx.InsertEntry(ctx, in)
		if err != nil {
			return err
		}
		lines, err := tx.InsertLines(ctx, inserted.ID, in.Lines)
		if err != nil {
			return err
		}
		inserted.Lines = lines
		entry = inserted
		return nil
	})
	if err != nil {
		if claimed {
			if derr := s.idempotency.Delete(ctx, in.IdempotencyKey, idempotencyModule); derr != nil {
				s.logger.Warn("release idempotency key", slog.String("key", in.IdempotencyKey), slog.Any("error", derr))
			}
		}
		return Entry{}, err
	}
	s.committed(ctx, "create", entry, map[string]any{"lines": len(entry.Lines)})
	return entry, nil
}

// claim reserves the idempotency key. Only a replayed key fails the call; when
// the store is unreachable the entry is posted without a claim.
func (s *Service) claim(ctx context.Context, key string) (bool, error) {
	if key == "" || s.idempotency == nil {
		return false, nil
	}
	err := s.idempotency.CheckAndInsert(ctx, key, idempotencyModule)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, internalShared.ErrIdempotencyConflict):
		return false, err
	default:
		s.logger.Warn("idempotency store unavailable, posting without key", slog.String("key", key), slog.Any("error", err))
		return false, nil
	}
}

// ReplaceLines swaps the entry's whole line-item set. An invalid set is
// rejected before anything is touched.
func (s *Service) ReplaceLines(ctx context.Context, id int64, lines []LineInput) (Entry, error) {
	if _, err := ValidateLines(lines); err != nil {
		return Entry{}, err
	}
	entry, err := s.replace(ctx, id, EntryUpdate{Lines: lines})
	if err != nil {
		return Entry{}, err
	}
	s.committed(ctx, "replace", entry, map[string]any{"lines": len(entry.Lines)})
	return entry, nil
}

// Update changes header fields and, when upd.Lines is non-nil, replaces the
// line items under the same rules as ReplaceLines.
func (s *Service) Update(ctx context.Context, id int64, upd EntryUpdate) (Entry, error) {
	if upd.Empty() {
		return s.repo.Get(ctx, id)
	}
	if upd.ReasonCodeID != nil && *upd.ReasonCodeID <= 0 {
		return Entry{}, shared.InvalidInput("reason code required")
	}
	if err := validateHeader(upd.BatchNumber, upd.Memo); err != nil {
		return Entry{}, err
	}
	if upd.Date != nil && upd.Date.IsZero() {
		return Entry{}, shared.InvalidInput("entry date required")
	}
	if upd.Lines != nil {
		if _, err := ValidateLines(upd.Lines); err != nil {
			return Entry{}, err
		}
	}
	entry, err := s.replace(ctx, id, upd)
	if err != nil {
		return Entry{}, err
	}
	s.committed(ctx, "update", entry, map[string]any{"lines_replaced": upd.Lines != nil})
	return entry, nil
}

func (s *Service) replace(ctx context.Context, id int64, upd EntryUpdate) (Entry, error) {
	var entry Entry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.LockEntry(ctx, id)
		if err != nil {
			return err
		}
		next := current.Status
		if upd.Lines != nil {
			next = StatusReplaced
			if !current.Status.CanTransition(next) {
				return fmt.Errorf("%w: %s -> %s", shared.ErrInvalidStatus, current.Status, next)
			}
		}
		if upd.ReasonCodeID != nil {
			if err := checkReasonCode(ctx, tx, *upd.ReasonCodeID); err != nil {
				return err
			}
		}
		if upd.Lines != nil {
			if err := checkReferences(ctx, tx, upd.Lines); err != nil {
				return err
			}
		}
		updated, err := tx.UpdateHeader(ctx, id, upd, next)
		if err != nil {
			return err
		}
		if upd.Lines != nil {
			if err := tx.DeleteLines(ctx, id); err != nil {
				return err
			}
			lines, err := tx.InsertLines(ctx, id, upd.Lines)
			if err != nil {
				return err
			}
			updated.Lines = lines
		} else {
			lines, err := tx.Lines(ctx, id)
			if err != nil {
				return err
			}
			updated.Lines = lines
		}
		entry = updated
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Delete removes the entry and all its line items atomically.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var removed Entry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.LockEntry(ctx, id)
		if err != nil {
			return err
		}
		if !current.Status.CanTransition(StatusDeleted) {
			return fmt.Errorf("%w: %s -> %s", shared.ErrInvalidStatus, current.Status, StatusDeleted)
		}
		if err := tx.DeleteLines(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteEntry(ctx, id); err != nil {
			return err
		}
		removed = current
		removed.Status = StatusDeleted
		return nil
	})
	if err != nil {
		return err
	}
	s.committed(ctx, "delete", removed, nil)
	return nil
}

func (s *Service) committed(ctx context.Context, action string, entry Entry, meta map[string]any) {
	if s.metrics != nil {
		s.metrics.EntryMutation(action)
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("bump balance cache", slog.Int64("entry_id", entry.ID), slog.Any("error", err))
		}
	}
	if s.audit == nil {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["date"] = entry.Date.Format(shared.DateLayout)
	meta["status"] = string(entry.Status)
	if err := s.audit.Record(ctx, internalShared.AuditLog{
		ActorID:  internalShared.ActorFromContext(ctx),
		Action:   "entry." + action,
		Entity:   "ledger_entry",
		EntityID: strconv.FormatInt(entry.ID, 10),
		Meta:     meta,
		At:       s.now(),
	}); err != nil {
		s.logger.Warn("audit entry mutation", slog.String("action", action), slog.Any("error", err))
	}
}

func checkReasonCode(ctx context.Context, tx TxRepository, id int64) error {
	ok, err := tx.ReasonCodeExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrReasonCodeNotFound, id)
	}
	return nil
}

// checkReferences ensures every line targets an existing active leaf account
// and, when tagged, an existing cost center.
func checkReferences(ctx context.Context, tx TxRepository, lines []LineInput) error {
	accountIDs := make([]int64, 0, len(lines))
	var centerIDs []int64
	for _, l := range lines {
		accountIDs = append(accountIDs, l.AccountID)
		if l.CostCenterID != nil {
			centerIDs = append(centerIDs, *l.CostCenterID)
		}
	}
	accounts, err := tx.PostingAccounts(ctx, accountIDs)
	if err != nil {
		return err
	}
	centers, err := tx.CostCentersExist(ctx, centerIDs)
	if err != nil {
		return err
	}
	for idx, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return fmt.Errorf("line %d: %w: %d", idx, shared.ErrAccountNotFound, l.AccountID)
		}
		if !acc.AcceptsPostings {
			return fmt.Errorf("line %d: %w", idx, shared.ReferentialError("account %s does not accept postings", acc.Code))
		}
		if !acc.IsActive {
			return fmt.Errorf("line %d: %w", idx, shared.ReferentialError("account %s is inactive", acc.Code))
		}
		if l.CostCenterID != nil && !centers[*l.CostCenterID] {
			return fmt.Errorf("line %d: %w: %d", idx, shared.ErrCostCenterNotFound, *l.CostCenterID)
		}
	}
	return nil
}

// IsImbalance reports whether err came from an unbalanced line-item set and
// returns the totals.
func IsImbalance(err error) (*shared.ImbalanceError, bool) {
	var imb *shared.ImbalanceError
	if errors.As(err, &imb) {
		return imb, true
	}
	return nil, false
}
