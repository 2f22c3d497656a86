package visit

import (
	"context"
	"time"

	"github.com/georgemunganga/fieldops-backend/internal/table"
)

// Repository defines persistence operations for visits.
type Repository interface {
	GetAll(ctx context.Context) ([]*Visit, error)
	GetByID(ctx context.Context, id string) (*Visit, error)
	Create(ctx context.Context, v *Visit) error
	Update(ctx context.Context, v *Visit) error
	Delete(ctx context.Context, id string) error
	GetPaginated(ctx context.Context, page, limit int, filters ...table.Filter) (*table.Page[Visit], error)

	// GetUpcoming returns at most limit scheduled visits, earliest first.
	GetUpcoming(ctx context.Context, limit int) ([]*Visit, error)
	// GetByStore returns a store's visits, newest first.
	GetByStore(ctx context.Context, storeID string) ([]*Visit, error)
	// GetCompletedSince returns completed visits dated at or after since.
	GetCompletedSince(ctx context.Context, since time.Time) ([]*Visit, error)
}
