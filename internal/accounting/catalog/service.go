package catalog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ajr-erp/ajr/internal/platform/httpx"
	internalShared "github.com/ajr-erp/ajr/internal/shared"
)

// AuditPort records registry changes.
type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

// Service manages one registry.
type Service struct {
	repo   Repository
	kind   Kind
	audit  AuditPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires a Service. audit may be nil.
func NewService(repo Repository, kind Kind, audit AuditPort) *Service {
	return &Service{repo: repo, kind: kind, audit: audit, logger: slog.Default(), now: time.Now}
}

// WithLogger sets the logger used for audit failures.
func (s *Service) WithLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Kind reports which registry the service manages.
func (s *Service) Kind() Kind { return s.kind }

// Get returns an item by id.
func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	return s.repo.Get(ctx, id)
}

// List returns items ordered by code.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Item, error) {
	return s.repo.List(ctx, filter)
}

// Create stores a new item. Codes are unique per registry.
func (s *Service) Create(ctx context.Context, in CreateInput) (Item, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Description = strings.TrimSpace(in.Description)
	if err := httpx.Validate(in); err != nil {
		return Item{}, err
	}
	created, err := s.repo.Insert(ctx, in)
	if err != nil {
		return Item{}, err
	}
	s.record(ctx, "create", created.ID)
	return created, nil
}

// Update applies the non-nil fields of upd.
func (s *Service) Update(ctx context.Context, id int64, upd Update) (Item, error) {
	if err := httpx.Validate(upd); err != nil {
		return Item{}, err
	}
	if upd.Description == nil && upd.Active == nil {
		return s.repo.Get(ctx, id)
	}
	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return Item{}, err
	}
	s.record(ctx, "update", id)
	return updated, nil
}

// Deactivate clears the active flag; items are never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, id int64) (Item, error) {
	inactive := false
	return s.Update(ctx, id, Update{Active: &inactive})
}

func (s *Service) record(ctx context.Context, verb string, id int64) {
	if s.audit == nil {
		return
	}
	action := s.kind.Entity + "." + verb
	if err := s.audit.Record(ctx, internalShared.AuditLog{
		ActorID:  internalShared.ActorFromContext(ctx),
		Action:   action,
		Entity:   s.kind.Entity,
		EntityID: strconv.FormatInt(id, 10),
		At:       s.now(),
	}); err != nil {
		s.logger.Warn("record audit", slog.String("action", action), slog.Int64("id", id), slog.Any("error", err))
	}
}
