package catalog

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo *memRepo) http.Handler {
	svc := NewService(repo, testKind, nil)
	r := chi.NewRouter()
	NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, "/reasons").MountRoutes(r)
	return r
}

func TestHandlerLifecycle(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/reasons", strings.NewReader(`{"code":"VEN","description":"Venda"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/reasons/1", strings.NewReader(`{"description":"Venda a prazo"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Venda a prazo")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/reasons/1", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, repo.items[created.ID].IsActive)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reasons?active=true", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestHandlerErrorStatuses(t *testing.T) {
	router := newTestRouter(newMemRepo(Item{ID: 1, Code: "VEN", Description: "Venda", IsActive: true}))

	cases := map[string]struct {
		method, target, body string
		status               int
	}{
		"duplicate":  {http.MethodPost, "/reasons", `{"code":"VEN","description":"x"}`, http.StatusConflict},
		"not found":  {http.MethodGet, "/reasons/42", "", http.StatusNotFound},
		"bad filter": {http.MethodGet, "/reasons?active=nope", "", http.StatusBadRequest},
		"bad json":   {http.MethodPost, "/reasons", `{"code":`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.target, body))
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}
