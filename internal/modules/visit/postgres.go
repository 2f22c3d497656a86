package visit

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgemunganga/fieldops-backend/internal/table"
)

const tableName = "visits"

type mapper struct{}

func (mapper) Columns() []string {
	return []string{"id", "store_id", "date", "type", "reason", "note", "status", "is_effective", "created_at", "updated_at"}
}

func (mapper) Values(v *Visit) []any {
	return []any{v.ID, v.StoreID, v.Date, v.Type, v.Reason, v.Note, v.Status, v.IsEffective, v.CreatedAt, v.UpdatedAt}
}

func (mapper) Scan(scan func(dest ...any) error) (*Visit, error) {
	v := &Visit{}
	if err := scan(&v.ID, &v.StoreID, &v.Date, &v.Type, &v.Reason, &v.Note, &v.Status, &v.IsEffective, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return v, nil
}

func (mapper) ID(v *Visit) string { return v.ID.String() }

type repository struct {
	*table.Repository[Visit]
}

func NewPostgresRepository(db *sql.DB) Repository {
	return NewRepository(table.NewPostgres[Visit](db, tableName, mapper{}))
}

func NewMemoryRepository() Repository {
	return NewRepository(table.NewMemory[Visit](tableName, mapper{}))
}

// NewRepository builds a Repository on src. Listings are ordered by date.
func NewRepository(src table.Source[Visit]) Repository {
	return &repository{Repository: table.NewRepository[Visit](src, "date", false)}
}

func (r *repository) GetUpcoming(ctx context.Context, limit int) ([]*Visit, error) {
	q := table.Query{}.Where(table.Eq("status", StatusScheduled)).OrderBy("date", false)
	if limit > 0 {
		q = q.Take(limit)
	}
	return r.Find(ctx, q)
}

func (r *repository) GetByStore(ctx context.Context, storeID string) ([]*Visit, error) {
	return r.Find(ctx, table.Query{}.Where(table.Eq("store_id", storeID)).OrderBy("date", true))
}

func (r *repository) GetCompletedSince(ctx context.Context, since time.Time) ([]*Visit, error) {
	return r.Find(ctx, table.Query{}.
		Where(table.Eq("status", StatusCompleted), table.Gte("date", since)).
		OrderBy("date", true))
}
