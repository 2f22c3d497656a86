package store

import (
	"context"
	"time"

	"github.com/georgemunganga/fieldops-backend/internal/table"
)

// Repository defines persistence operations for stores.
type Repository interface {
	GetAll(ctx context.Context) ([]*Store, error)
	GetByID(ctx context.Context, id string) (*Store, error)
	Create(ctx context.Context, s *Store) error
	Update(ctx context.Context, s *Store) error
	Delete(ctx context.Context, id string) error
	GetPaginated(ctx context.Context, page, limit int, filters ...table.Filter) (*table.Page[Store], error)

	// GetUrgent returns active stores whose health at now is red, least
	// recently visited first.
	GetUrgent(ctx context.Context, now time.Time) ([]*Store, error)
	GetByZone(ctx context.Context, zone string) ([]*Store, error)
	// TouchLastVisit moves last_visit forward to at. An older at is ignored.
	TouchLastVisit(ctx context.Context, id string, at time.Time) error
}
