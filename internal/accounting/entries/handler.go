package entries

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/httpx"
	internalShared "github.com/ajr-erp/ajr/internal/shared"
)

type entryService interface {
	Get(ctx context.Context, id int64) (Entry, error)
	GetLineItem(ctx context.Context, id int64) (LineItem, error)
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
	Create(ctx context.Context, in CreateInput) (Entry, error)
	ReplaceLines(ctx context.Context, id int64, lines []LineInput) (Entry, error)
	Update(ctx context.Context, id int64, upd EntryUpdate) (Entry, error)
	Delete(ctx context.Context, id int64) error
}

// Handler exposes ledger entry endpoints.
type Handler struct {
	logger  *slog.Logger
	service entryService
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service entryService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the entry routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/entries", h.list)
	r.Post("/entries", h.create)
	r.Get("/entries/{id}", h.get)
	r.Put("/entries/{id}", h.put)
	r.Patch("/entries/{id}", h.patch)
	r.Delete("/entries/{id}", h.delete)
	r.Put("/entries/{id}/lines", h.replaceLines)
	r.Get("/line-items/{id}", h.getLineItem)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := shared.ParseDateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	list, err := h.service.List(r.Context(), ListFilter{
		Range:       rng,
		BatchNumber: q.Get("batch_number"),
		Page:        shared.NewPage(skip, limit),
	})
	if err != nil {
		h.fail(w, "list entries", err)
		return
	}
	out := make([]entryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEntryResponse(e))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if in.UserID == nil {
		if actor := internalShared.ActorFromContext(r.Context()); actor != 0 {
			in.UserID = &actor
		}
	}
	in.IdempotencyKey = r.Header.Get("Idempotency-Key")
	entry, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create entry", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get entry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.applyUpdate(w, r, id, upd)
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req patchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.applyUpdate(w, r, id, upd)
}

func (h *Handler) applyUpdate(w http.ResponseWriter, r *http.Request, id int64, upd EntryUpdate) {
	entry, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		h.fail(w, "update entry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) replaceLines(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req linesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	entry, err := h.service.ReplaceLines(r.Context(), id, toLineInputs(req.Lines))
	if err != nil {
		h.fail(w, "replace entry lines", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete entry", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) getLineItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetLineItem(r.Context(), id)
	if err != nil {
		h.fail(w, "get line item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toLineResponse(item))
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
