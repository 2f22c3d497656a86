package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/fieldops-backend/internal/table"
	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", validation.Errors{"name": "Name is required"}, http.StatusUnprocessableEntity},
		{"bad id", ErrInvalidID, http.StatusBadRequest},
		{"not found", fmt.Errorf("stores x: %w", table.ErrNotFound), http.StatusNotFound},
		{"duplicate", &table.RemoteError{Op: "insert", Table: "stores", Err: &pq.Error{Code: "23505"}}, http.StatusConflict},
		{"remote", &table.RemoteError{Op: "select", Table: "stores", Err: errors.New("conn reset")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, &table.RemoteError{Op: "select", Table: "stores", Err: errors.New(`pq: relation "stores" does not exist`)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.NotContains(t, rec.Body.String(), "stores")
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestValidationErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, validation.Errors{"store_id": "Please select a store"})

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Please select a store", body.Errors["store_id"])
}

func TestPathIDAndIntQuery(t *testing.T) {
	r := chi.NewRouter()
	var got string
	var gotErr error
	r.Get("/stores/{id}", func(w http.ResponseWriter, req *http.Request) {
		got, gotErr = PathID(req, "id")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stores/6F1C2B1E-7A43-4E55-9D4B-0B3F1A8E9C21", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, "6f1c2b1e-7a43-4e55-9d4b-0b3f1a8e9c21", got)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stores/42", nil))
	assert.ErrorIs(t, gotErr, ErrInvalidID)

	req := httptest.NewRequest(http.MethodGet, "/visits?limit=5&page=x", nil)
	assert.Equal(t, 5, IntQuery(req, "limit", 10))
	assert.Equal(t, 1, IntQuery(req, "page", 1))
	assert.Equal(t, 20, IntQuery(req, "missing", 20))
}
