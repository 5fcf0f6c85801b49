package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/httpx"
)

type registryService interface {
	Get(ctx context.Context, id int64) (Item, error)
	List(ctx context.Context, filter ListFilter) ([]Item, error)
	Create(ctx context.Context, in CreateInput) (Item, error)
	Update(ctx context.Context, id int64, upd Update) (Item, error)
	Deactivate(ctx context.Context, id int64) (Item, error)
}

// Handler exposes CRUD endpoints for one registry under a base path.
type Handler struct {
	logger  *slog.Logger
	service registryService
	base    string
}

// NewHandler builds a Handler mounted at base, e.g. "/reasons".
func NewHandler(logger *slog.Logger, service registryService, base string) *Handler {
	return &Handler{logger: logger, service: service, base: base}
}

// MountRoutes registers the registry routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get(h.base, h.list)
	r.Post(h.base, h.create)
	r.Get(h.base+"/{id}", h.get)
	r.Patch(h.base+"/{id}", h.update)
	r.Delete(h.base+"/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filter := ListFilter{Page: shared.NewPage(skip, limit)}
	if raw := q.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.RespondError(w, shared.InvalidInput("active must be a boolean"))
			return
		}
		filter.Active = &active
	}
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create", err)
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
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var upd Update
	if err := httpx.DecodeJSON(r, &upd); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		h.fail(w, "update", err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if _, err := h.service.Deactivate(r.Context(), id); err != nil {
		h.fail(w, "deactivate", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.String("path", h.base), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
