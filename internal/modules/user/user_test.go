package user

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/fieldops-backend/internal/table"
	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

func newTestService() (*service, Repository) {
	repo := NewMemoryRepository()
	return &service{repo: repo, cost: bcrypt.MinCost}, repo
}

func TestRegisterUser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, RegisterRequest{Email: " Rep@Example.com", Password: "s3cret-pass", FullName: "Grace Banda"})
	require.NoError(t, err)
	assert.Equal(t, "rep@example.com", u.Email)
	assert.Equal(t, RoleRep, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))

	got, err := repo.GetUserByID(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.RegisterUser(ctx, RegisterRequest{Email: "rep@example.com", Password: "another-pass", FullName: "Other"})
	assert.True(t, table.IsDuplicate(err))
}

func TestRegisterUserValidation(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.RegisterUser(context.Background(), RegisterRequest{Email: "nope", Password: "short", Role: "admin"})

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Invalid email address", errs["email"])
	assert.Equal(t, "Password must be at least 8 characters", errs["password"])
	assert.Equal(t, "Full name is required", errs["full_name"])
	assert.Equal(t, "Role must be one of: rep, manager", errs["role"])
}

func TestHandlerRegister(t *testing.T) {
	svc, _ := newTestService()
	r := chi.NewRouter()
	h := NewHandler(svc)
	h.RegisterRoutes(r)
	h.RegisterProtectedRoutes(r)

	body := `{"email":"a@b.co","password":"password1","full_name":"A B"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewBufferString(body)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewBufferString(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
