// Package costcenters manages cost centers, the optional allocation tag on
// line items.
package costcenters

import (
	"log/slog"

	"github.com/ajr-erp/ajr/internal/accounting/catalog"
	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/db"
)

// Kind describes the cost_centers registry.
var Kind = catalog.Kind{
	Entity:   "cost_center",
	Table:    "cost_centers",
	NotFound: shared.ErrCostCenterNotFound,
}

// CostCenter is a cross-cutting allocation label.
type CostCenter = catalog.Item

// NewService wires the cost center service on q.
func NewService(q db.Querier, audit catalog.AuditPort) *catalog.Service {
	return catalog.NewService(catalog.NewRepository(q, Kind), Kind, audit)
}

// NewHandler exposes the service under /cost-centers.
func NewHandler(logger *slog.Logger, svc *catalog.Service) *catalog.Handler {
	return catalog.NewHandler(logger, svc, "/cost-centers")
}
