package task

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/fieldops-backend/internal/cache"
	"github.com/georgemunganga/fieldops-backend/internal/modules/settings"
	"github.com/georgemunganga/fieldops-backend/internal/modules/store"
	"github.com/georgemunganga/fieldops-backend/internal/table"
	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

type staticSettings struct{ s *settings.Settings }

func (f staticSettings) Get(context.Context) (*settings.Settings, error) { return f.s, nil }

func newTestService(t *testing.T) (Service, Repository, *store.Store) {
	t.Helper()
	log, _ := test.NewNullLogger()
	repo := NewMemoryRepository()
	stores := store.NewMemoryRepository()
	shop := &store.Store{ID: uuid.New(), StoreCode: "40001", Name: "Depot", Zone: "West", Status: store.StatusActive}
	require.NoError(t, stores.Create(context.Background(), shop))
	svc := NewService(repo, cache.New("tasks", repo.GetAll, time.Minute, log), stores, staticSettings{settings.Defaults()}, log)
	return svc, repo, shop
}

func due(days int) *time.Time {
	d := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &d
}

func seedTask(t *testing.T, repo Repository, storeID uuid.UUID, p Priority, s Status, dueDate *time.Time) *Task {
	t.Helper()
	task := &Task{ID: uuid.New(), StoreID: storeID, Cat: "Stock", Priority: p, Status: s, DueDate: dueDate}
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func TestGetUrgentOnlyPendingHigh(t *testing.T) {
	_, repo, shop := newTestService(t)
	want1 := seedTask(t, repo, shop.ID, PriorityHigh, StatusPending, due(3))
	seedTask(t, repo, shop.ID, PriorityHigh, StatusPending, nil)
	want0 := seedTask(t, repo, shop.ID, PriorityHigh, StatusPending, due(1))
	seedTask(t, repo, shop.ID, PriorityHigh, StatusDone, due(0))
	seedTask(t, repo, shop.ID, PriorityMedium, StatusPending, due(0))
	seedTask(t, repo, shop.ID, PriorityHigh, StatusInProgress, due(0))

	all, err := repo.GetUrgent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, task := range all {
		assert.True(t, task.IsUrgent())
	}
	assert.Nil(t, all[2].DueDate, "undated tasks come last")

	capped, err := repo.GetUrgent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)
	assert.Equal(t, want0.ID, capped[0].ID)
	assert.Equal(t, want1.ID, capped[1].ID)
}

func TestCreateRequiresStore(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, storeID := range []string{"", "not-a-uuid", uuid.NewString()} {
		_, err := svc.Create(ctx, TaskRequest{StoreID: storeID, Cat: "Stock"})
		var errs validation.Errors
		require.True(t, errors.As(err, &errs), "store_id %q", storeID)
		assert.Equal(t, "Please select a store", errs["store_id"], "store_id %q", storeID)
	}
}

func TestCreateChecksCategoriesAndDefaults(t *testing.T) {
	svc, _, shop := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, TaskRequest{StoreID: shop.ID.String(), Cat: "Gardening"})
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Unknown task category", errs["cat"])

	_, err = svc.Create(ctx, TaskRequest{StoreID: shop.ID.String(), Cat: "Stock", Sub: "Repaint"})
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "sub")

	_, err = svc.Create(ctx, TaskRequest{StoreID: shop.ID.String(), Cat: "Stock", Priority: "urgent"})
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Priority must be one of: high, medium, low", errs["priority"])

	created, err := svc.Create(ctx, TaskRequest{StoreID: shop.ID.String(), Cat: "Stock", Sub: "Stock count", DueDate: due(2)})
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, created.Priority)
	assert.Equal(t, StatusPending, created.Status)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestSetStatusAllowsAnyMember(t *testing.T) {
	svc, repo, shop := newTestService(t)
	ctx := context.Background()
	task := seedTask(t, repo, shop.ID, PriorityLow, StatusDone, nil)

	got, err := svc.SetStatus(ctx, task.ID.String(), StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	got, err = svc.SetStatus(ctx, task.ID.String(), StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)

	_, err = svc.SetStatus(ctx, task.ID.String(), "archived")
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "status")

	_, err = svc.SetStatus(ctx, uuid.NewString(), StatusDone)
	assert.ErrorIs(t, err, table.ErrNotFound)
}

func TestUpdateKeepsStatusWhenOmitted(t *testing.T) {
	svc, repo, shop := newTestService(t)
	task := seedTask(t, repo, shop.ID, PriorityLow, StatusInProgress, nil)

	got, err := svc.Update(context.Background(), task.ID.String(), TaskRequest{
		StoreID: shop.ID.String(), Cat: "Promotion", Priority: PriorityHigh, Description: "Hang posters",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, "Hang posters", got.Description)
}

func TestListPaginatedAndByStore(t *testing.T) {
	svc, repo, shop := newTestService(t)
	other := uuid.New()
	for i := 0; i < 3; i++ {
		seedTask(t, repo, shop.ID, PriorityLow, StatusPending, nil)
	}
	seedTask(t, repo, other, PriorityLow, StatusDone, nil)

	page, err := svc.ListPaginated(context.Background(), 1, 2, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasMore)

	byStore, err := svc.ListByStore(context.Background(), other.String())
	require.NoError(t, err)
	require.Len(t, byStore, 1)
	assert.Equal(t, StatusDone, byStore[0].Status)

	pending, err := repo.GetPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestHandlerTasks(t *testing.T) {
	svc, _, shop := newTestService(t)
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewBufferString(`{"cat":"Stock"}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"errors":{"store_id":"Please select a store"}}`, rec.Body.String())

	body, _ := json.Marshal(TaskRequest{StoreID: shop.ID.String(), Cat: "Stock", Priority: PriorityHigh})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tasks/urgent", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var urgent []Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &urgent))
	require.Len(t, urgent, 1)
	assert.Equal(t, created.ID, urgent[0].ID)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/"+created.ID.String()+"/status",
		bytes.NewBufferString(`{"status":"done"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
