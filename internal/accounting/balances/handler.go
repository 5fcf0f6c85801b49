package balances

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ajr-erp/ajr/internal/accounting/accounts"
	"github.com/ajr-erp/ajr/internal/accounting/reports"
	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/httpx"
)

type balanceService interface {
	AccountBalance(ctx context.Context, accountID int64, rng shared.DateRange) (AccountBalance, error)
	SubtreeBalance(ctx context.Context, prefix string, rng shared.DateRange) (SubtreeBalance, error)
	Movements(ctx context.Context, accountID int64, limit int) ([]Movement, error)
	PeriodTotals(ctx context.Context, typ accounts.AccountType, rng shared.DateRange) (PeriodTotals, error)
	TrialBalance(ctx context.Context, rng shared.DateRange) (reports.TrialBalance, error)
	ProfitAndLoss(ctx context.Context, rng shared.DateRange) (reports.ProfitAndLoss, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (reports.BalanceSheet, error)
	FinanceSummary(ctx context.Context, asOf time.Time) (FinanceSummary, error)
}

// Handler exposes balance and report endpoints.
type Handler struct {
	logger  *slog.Logger
	service balanceService
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger, service balanceService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the read-only balance routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts/{id}/balance", h.accountBalance)
	r.Get("/accounts/{id}/movements", h.movements)
	r.Get("/balances/subtree", h.subtree)
	r.Get("/reports/trial-balance", h.trialBalance)
	r.Get("/reports/period-totals", h.periodTotals)
	r.Get("/reports/profit-loss", h.profitLoss)
	r.Get("/reports/balance-sheet", h.balanceSheet)
	r.Get("/reports/summary", h.summary)
}

func dateRange(r *http.Request) (shared.DateRange, error) {
	q := r.URL.Query()
	return shared.ParseDateRange(q.Get("from"), q.Get("to"))
}

func asOfParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Time{}, nil
	}
	return shared.ParseDate(raw)
}

func (h *Handler) accountBalance(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rng, err := dateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	bal, err := h.service.AccountBalance(r.Context(), id, rng)
	if err != nil {
		h.fail(w, "account balance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAccountBalance(bal))
}

func (h *Handler) movements(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.Movements(r.Context(), id, limit)
	if err != nil {
		h.fail(w, "account movements", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toMovements(list))
}

func (h *Handler) subtree(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	bal, err := h.service.SubtreeBalance(r.Context(), r.URL.Query().Get("prefix"), rng)
	if err != nil {
		h.fail(w, "subtree balance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSubtree(bal))
}

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	tb, err := h.service.TrialBalance(r.Context(), rng)
	if err != nil {
		h.fail(w, "trial balance", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTrialBalance(rng, tb))
}

func (h *Handler) periodTotals(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	typ := accounts.AccountType(strings.ToUpper(r.URL.Query().Get("type")))
	totals, err := h.service.PeriodTotals(r.Context(), typ, rng)
	if err != nil {
		h.fail(w, "period totals", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPeriodTotals(totals))
}

func (h *Handler) profitLoss(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	pl, err := h.service.ProfitAndLoss(r.Context(), rng)
	if err != nil {
		h.fail(w, "profit and loss", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProfitLoss(rng, pl))
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	bs, err := h.service.BalanceSheet(r.Context(), asOf)
	if err != nil {
		h.fail(w, "balance sheet", err)
		return
	}
	resp := balanceSheetResponse{
		Assets:                    toBSSection(bs.Assets),
		Liabilities:               toBSSection(bs.Liabilities),
		Equity:                    toBSSection(bs.Equity),
		TotalLiabilitiesAndEquity: amount(bs.TotalLiabilitiesAndEquity),
	}
	if !asOf.IsZero() {
		resp.AsOf = asOf.Format(shared.DateLayout)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	asOf, err := asOfParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	s, err := h.service.FinanceSummary(r.Context(), asOf)
	if err != nil {
		h.fail(w, "finance summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toSummary(s))
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
