package task

import (
	"context"
	"database/sql"

	"github.com/georgemunganga/fieldops-backend/internal/table"
)

const tableName = "tasks"

type mapper struct{}

func (mapper) Columns() []string {
	return []string{"id", "store_id", "cat", "sub", "priority", "due_date", "description", "status", "created_at", "updated_at"}
}

func (mapper) Values(t *Task) []any {
	return []any{t.ID, t.StoreID, t.Cat, t.Sub, t.Priority, t.DueDate, t.Description, t.Status, t.CreatedAt, t.UpdatedAt}
}

func (mapper) Scan(scan func(dest ...any) error) (*Task, error) {
	t := &Task{}
	if err := scan(&t.ID, &t.StoreID, &t.Cat, &t.Sub, &t.Priority, &t.DueDate, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (mapper) ID(t *Task) string { return t.ID.String() }

type repository struct {
	*table.Repository[Task]
}

func NewPostgresRepository(db *sql.DB) Repository {
	return NewRepository(table.NewPostgres[Task](db, tableName, mapper{}))
}

func NewMemoryRepository() Repository {
	return NewRepository(table.NewMemory[Task](tableName, mapper{}))
}

// NewRepository builds a Repository on src. Listings are newest first.
func NewRepository(src table.Source[Task]) Repository {
	return &repository{Repository: table.NewRepository[Task](src, "created_at", true)}
}

func (r *repository) GetUrgent(ctx context.Context, limit int) ([]*Task, error) {
	rows, err := r.Find(ctx, table.Query{}.
		Where(table.Eq("status", StatusPending), table.Eq("priority", PriorityHigh)).
		OrderBy("due_date", false))
	if err != nil {
		return nil, err
	}
	// Ascending order puts undated tasks first; move them behind the dated ones.
	dated := make([]*Task, 0, len(rows))
	var undated []*Task
	for _, t := range rows {
		if t.DueDate == nil {
			undated = append(undated, t)
		} else {
			dated = append(dated, t)
		}
	}
	out := append(dated, undated...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *repository) GetByStore(ctx context.Context, storeID string) ([]*Task, error) {
	return r.Find(ctx, table.Query{}.Where(table.Eq("store_id", storeID)).OrderBy("created_at", true))
}

func (r *repository) GetPending(ctx context.Context) ([]*Task, error) {
	return r.Find(ctx, table.Query{}.Where(table.Eq("status", StatusPending)).OrderBy("due_date", false))
}
