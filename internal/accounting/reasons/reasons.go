// Package reasons manages reason codes: short reusable labels attached to
// ledger entries.
package reasons

import (
	"log/slog"

	"github.com/ajr-erp/ajr/internal/accounting/catalog"
	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/db"
)

// Kind describes the reason_codes registry.
var Kind = catalog.Kind{
	Entity:   "reason_code",
	Table:    "reason_codes",
	NotFound: shared.ErrReasonCodeNotFound,
}

// ReasonCode is a reusable entry label.
type ReasonCode = catalog.Item

// NewService wires the reason code service on q.
func NewService(q db.Querier, audit catalog.AuditPort) *catalog.Service {
	return catalog.NewService(catalog.NewRepository(q, Kind), Kind, audit)
}

// NewHandler exposes the service under /reasons.
func NewHandler(logger *slog.Logger, svc *catalog.Service) *catalog.Handler {
	return catalog.NewHandler(logger, svc, "/reasons")
}
