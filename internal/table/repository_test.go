package table

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID        string
	Kind      string
	Rank      int
	SeenAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *widget) SetTimestamps(now time.Time, created bool) {
	if created {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
}

type widgetMapper struct{}

func (widgetMapper) Columns() []string {
	return []string{"id", "kind", "rank", "seen_at", "created_at", "updated_at"}
}

func (widgetMapper) Values(w *widget) []any {
	return []any{w.ID, w.Kind, w.Rank, w.SeenAt, w.CreatedAt, w.UpdatedAt}
}

func (widgetMapper) Scan(scan func(dest ...any) error) (*widget, error) {
	w := &widget{}
	err := scan(&w.ID, &w.Kind, &w.Rank, &w.SeenAt, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (widgetMapper) ID(w *widget) string { return w.ID }

func seeded(t *testing.T, n int) *Repository[widget] {
	t.Helper()
	repo := NewRepository[widget](NewMemory[widget]("widgets", widgetMapper{}), "rank", false)
	kinds := []string{"a", "b"}
	for i := n; i >= 1; i-- {
		require.NoError(t, repo.Create(context.Background(), &widget{
			ID:   string(rune('a'-1+i)) + "-id",
			Kind: kinds[i%2],
			Rank: i,
		}))
	}
	return repo
}

func TestGetAllOrdersByDefaultColumn(t *testing.T) {
	repo := seeded(t, 5)
	rows, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i, w := range rows {
		assert.Equal(t, i+1, w.Rank)
	}
}

func TestCreateStampsTimestamps(t *testing.T) {
	repo := NewRepository[widget](NewMemory[widget]("widgets", widgetMapper{}), "", false)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	w := &widget{ID: "x"}
	require.NoError(t, repo.Create(context.Background(), w))
	assert.Equal(t, fixed, w.CreatedAt)
	assert.Equal(t, fixed, w.UpdatedAt)

	repo.now = func() time.Time { return fixed.Add(time.Hour) }
	require.NoError(t, repo.Update(context.Background(), w))
	assert.Equal(t, fixed, w.CreatedAt)
	assert.Equal(t, fixed.Add(time.Hour), w.UpdatedAt)
}

func TestGetByID(t *testing.T) {
	repo := seeded(t, 3)

	w, err := repo.GetByID(context.Background(), "b-id")
	require.NoError(t, err)
	assert.Equal(t, 2, w.Rank)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAndDeleteMissingRow(t *testing.T) {
	repo := seeded(t, 1)
	assert.ErrorIs(t, repo.Update(context.Background(), &widget{ID: "nope"}), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), ErrNotFound)
	require.NoError(t, repo.Delete(context.Background(), "a-id"))

	rows, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateDuplicate(t *testing.T) {
	repo := seeded(t, 1)
	err := repo.Create(context.Background(), &widget{ID: "a-id"})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "insert", remote.Op)
	assert.Equal(t, "widgets", remote.Table)
}

func TestGetPaginated(t *testing.T) {
	repo := seeded(t, 7)
	ctx := context.Background()

	page, err := repo.GetPaginated(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, page.Count)
	assert.True(t, page.HasMore)
	require.Len(t, page.Data, 3)
	assert.Equal(t, 1, page.Data[0].Rank)

	page, err = repo.GetPaginated(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 7, page.Data[0].Rank)
	assert.False(t, page.HasMore)

	page, err = repo.GetPaginated(ctx, 9, 3)
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)

	page, err = repo.GetPaginated(ctx, 1, 2, Eq("kind", "a"))
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.True(t, page.HasMore)
	for _, w := range page.Data {
		assert.Equal(t, "a", w.Kind)
	}
}

func TestFindOrdersNilFirstAndCaps(t *testing.T) {
	src := NewMemory[widget]("widgets", widgetMapper{})
	repo := NewRepository[widget](src, "", false)
	ctx := context.Background()
	later := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	earlier := later.Add(-24 * time.Hour)
	require.NoError(t, repo.Create(ctx, &widget{ID: "1", SeenAt: &later}))
	require.NoError(t, repo.Create(ctx, &widget{ID: "2"}))
	require.NoError(t, repo.Create(ctx, &widget{ID: "3", SeenAt: &earlier}))

	rows, err := repo.Find(ctx, Query{}.OrderBy("seen_at", false))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2", "3", "1"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})

	rows, err = repo.Find(ctx, Query{}.OrderBy("seen_at", true).Take(2))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].ID)
	assert.Equal(t, "3", rows[1].ID)
}

func TestFindGteSkipsNullAndEarlier(t *testing.T) {
	src := NewMemory[widget]("widgets", widgetMapper{})
	repo := NewRepository[widget](src, "", false)
	ctx := context.Background()
	cut := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	before, after := cut.Add(-time.Second), cut.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, &widget{ID: "old", SeenAt: &before}))
	require.NoError(t, repo.Create(ctx, &widget{ID: "never"}))
	require.NoError(t, repo.Create(ctx, &widget{ID: "edge", SeenAt: &cut}))
	require.NoError(t, repo.Create(ctx, &widget{ID: "new", SeenAt: &after}))

	rows, err := repo.Find(ctx, Query{}.Where(Gte("seen_at", cut)).OrderBy("seen_at", false))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"edge", "new"}, []string{rows[0].ID, rows[1].ID})

	n, err := src.Count(ctx, []Filter{Gte("rank", 0), Eq("kind", "")})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = repo.Find(ctx, Query{}.Where(Filter{Column: "rank", Op: "LIKE", Value: 1}))
	assert.Error(t, err)
}

func TestFindUnknownColumn(t *testing.T) {
	repo := seeded(t, 1)
	_, err := repo.Find(context.Background(), Query{}.Where(Eq("colour", "red")))
	var remote *RemoteError
	assert.ErrorAs(t, err, &remote)
}

type failingSource struct {
	Source[widget]
	err error
}

func (f failingSource) Select(context.Context, Query) ([]*widget, error) { return nil, f.err }

func TestRemoteErrorWrapsBackendFailure(t *testing.T) {
	backend := errors.New("connection refused")
	repo := NewRepository[widget](failingSource{Source: NewMemory[widget]("widgets", widgetMapper{}), err: backend}, "", false)

	_, err := repo.GetAll(context.Background())
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "select", remote.Op)
	assert.ErrorIs(t, err, backend)
	assert.Contains(t, err.Error(), "select widgets")
}

func TestIsDuplicateRecognisesPostgresCode(t *testing.T) {
	assert.True(t, IsDuplicate(&RemoteError{Op: "insert", Table: "stores", Err: &pq.Error{Code: "23505"}}))
	assert.False(t, IsDuplicate(&RemoteError{Op: "insert", Table: "stores", Err: &pq.Error{Code: "23503"}}))
	assert.False(t, IsDuplicate(nil))
}

func TestQueryRange(t *testing.T) {
	q := Query{}.Range(10, 19)
	assert.Equal(t, 10, q.Offset)
	assert.Equal(t, 10, q.Limit)

	q = Query{}.Where(Eq("a", 1)).Where(Eq("b", 2))
	assert.Len(t, q.Filters, 2)
}
