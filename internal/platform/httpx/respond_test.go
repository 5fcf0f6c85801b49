package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type extendedErr struct{}

func (extendedErr) Error() string { return "sides differ" }
func (extendedErr) Is(target error) bool {
	return target == ErrUnprocessable
}
func (extendedErr) ProblemExtensions() map[string]any {
	return map[string]any{"difference": "1.00"}
}

func TestRespondErrorMapsKinds(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("x: %w", ErrNotFound):      http.StatusNotFound,
		fmt.Errorf("x: %w", ErrDuplicate):     http.StatusConflict,
		fmt.Errorf("x: %w", ErrConflict):      http.StatusConflict,
		fmt.Errorf("x: %w", ErrValidation):    http.StatusBadRequest,
		fmt.Errorf("x: %w", ErrUnprocessable): http.StatusUnprocessableEntity,
		fmt.Errorf("x: %w", ErrForbidden):     http.StatusForbidden,
		fmt.Errorf("boom"):                    http.StatusInternalServerError,
	}
	for err, status := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, err)
		assert.Equalf(t, status, rr.Code, "err %v", err)
		assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, fmt.Errorf("pq: connection refused"))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	assert.Empty(t, problem.Detail)
}

func TestRespondErrorCarriesExtensions(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, fmt.Errorf("line items: %w", extendedErr{}))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	assert.Equal(t, "1.00", problem.Extensions["difference"])
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var target struct {
		Code string `json:"code"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"1","extra":1}`))
	err := DecodeJSON(req, &target)
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, IsClientError(err))
}

func TestIDParam(t *testing.T) {
	for raw, ok := range map[string]bool{"12": true, "0": false, "-3": false, "x": false} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		id, err := IDParam(req, "id")
		if ok {
			require.NoError(t, err)
			assert.Equal(t, int64(12), id)
			continue
		}
		assert.ErrorIsf(t, err, ErrValidation, "raw %q", raw)
	}
}

func TestValidateReportsFields(t *testing.T) {
	type input struct {
		Code string `validate:"required,max=3"`
	}
	err := Validate(input{Code: "toolong"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "max=3")
	assert.NoError(t, Validate(input{Code: "ok"}))
}
