package accounts

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/httpx"
)

const maxImportBytes = 16 << 20

type accountService interface {
	Get(ctx context.Context, id int64) (Account, error)
	GetByCode(ctx context.Context, code string) (Account, error)
	List(ctx context.Context, filter ListFilter) ([]Account, error)
	Create(ctx context.Context, in CreateInput) (Account, error)
	Update(ctx context.Context, id int64, upd AccountUpdate) (Account, error)
	Deactivate(ctx context.Context, id int64) (Account, error)
	Purge(ctx context.Context, id int64) error
}

type chartImporter interface {
	Import(ctx context.Context, rows []ImportRow) (ImportReport, error)
}

// Handler exposes chart of accounts endpoints.
type Handler struct {
	logger   *slog.Logger
	service  accountService
	importer chartImporter
}

// NewHandler builds a Handler. importer may be nil to disable uploads.
func NewHandler(logger *slog.Logger, service accountService, importer chartImporter) *Handler {
	return &Handler{logger: logger, service: service, importer: importer}
}

// MountRoutes registers the account routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts", h.list)
	r.Post("/accounts", h.create)
	r.Post("/accounts/import", h.importChart)
	r.Get("/accounts/code/{code}", h.getByCode)
	r.Get("/accounts/{id}", h.get)
	r.Patch("/accounts/{id}", h.update)
	r.Delete("/accounts/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filter := ListFilter{Prefix: q.Get("prefix"), Page: shared.NewPage(skip, limit)}
	if raw := q.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.RespondError(w, shared.InvalidInput("active must be a boolean"))
			return
		}
		filter.Active = &active
	}
	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, "list accounts", err)
		return
	}
	if list == nil {
		list = []Account{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create account", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	account, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get account", err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) getByCode(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, "get account by code", err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var upd AccountUpdate
	if err := httpx.DecodeJSON(r, &upd); err != nil {
		httpx.RespondError(w, err)
		return
	}
	account, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		h.fail(w, "update account", err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

// delete deactivates by default; ?purge=true removes an unreferenced account.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if purge, _ := strconv.ParseBool(r.URL.Query().Get("purge")); purge {
		if err := h.service.Purge(r.Context(), id); err != nil {
			h.fail(w, "purge account", err)
			return
		}
		httpx.NoContent(w)
		return
	}
	if _, err := h.service.Deactivate(r.Context(), id); err != nil {
		h.fail(w, "deactivate account", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) importChart(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		httpx.Problem(w, http.StatusNotImplemented, "Not Implemented", "chart import disabled")
		return
	}
	rows, err := ParseTrialBalance(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		httpx.RespondError(w, shared.InvalidInput("%v", err))
		return
	}
	report, err := h.importer.Import(r.Context(), rows)
	if err != nil {
		h.fail(w, "import chart", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
