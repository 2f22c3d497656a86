package task

import (
	"context"

	"github.com/georgemunganga/fieldops-backend/internal/table"
)

// Repository defines persistence operations for tasks.
type Repository interface {
	GetAll(ctx context.Context) ([]*Task, error)
	GetByID(ctx context.Context, id string) (*Task, error)
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
	GetPaginated(ctx context.Context, page, limit int, filters ...table.Filter) (*table.Page[Task], error)

	// GetUrgent returns at most limit pending high-priority tasks, soonest
	// due first; tasks without a due date come last.
	GetUrgent(ctx context.Context, limit int) ([]*Task, error)
	GetByStore(ctx context.Context, storeID string) ([]*Task, error)
	GetPending(ctx context.Context) ([]*Task, error)
}
