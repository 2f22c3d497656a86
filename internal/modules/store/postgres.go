package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgemunganga/fieldops-backend/internal/health"
	"github.com/georgemunganga/fieldops-backend/internal/table"
)

const tableName = "stores"

type mapper struct{}

func (mapper) Columns() []string {
	return []string{
		"id", "store_code", "name", "category", "owner", "phone", "zone", "area_name",
		"address", "map_link", "status", "last_visit", "pinned_note", "contacts",
		"has_pos", "has_sim_card", "created_at", "updated_at",
	}
}

func (mapper) Values(s *Store) []any {
	return []any{
		s.ID, s.StoreCode, s.Name, s.Category, s.Owner, s.Phone, s.Zone, s.AreaName,
		s.Address, s.MapLink, s.Status, s.LastVisit, s.PinnedNote, s.Contacts,
		s.HasPOS, s.HasSIMCard, s.CreatedAt, s.UpdatedAt,
	}
}

func (mapper) Scan(scan func(dest ...any) error) (*Store, error) {
	s := &Store{}
	err := scan(&s.ID, &s.StoreCode, &s.Name, &s.Category, &s.Owner, &s.Phone, &s.Zone, &s.AreaName,
		&s.Address, &s.MapLink, &s.Status, &s.LastVisit, &s.PinnedNote, &s.Contacts,
		&s.HasPOS, &s.HasSIMCard, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (mapper) ID(s *Store) string { return s.ID.String() }

type repository struct {
	*table.Repository[Store]
}

// NewPostgresRepository returns a Repository over the stores table.
func NewPostgresRepository(db *sql.DB) Repository {
	return NewRepository(table.NewPostgres[Store](db, tableName, mapper{}))
}

// NewMemoryRepository returns a Repository that keeps stores in process.
func NewMemoryRepository() Repository {
	return NewRepository(table.NewMemory[Store](tableName, mapper{}))
}

// NewRepository builds a Repository on any table source. Listings are
// ordered by name.
func NewRepository(src table.Source[Store]) Repository {
	return &repository{Repository: table.NewRepository[Store](src, "name", false)}
}

func (r *repository) GetUrgent(ctx context.Context, now time.Time) ([]*Store, error) {
	rows, err := r.Find(ctx, table.Query{}.
		Where(table.Eq("status", StatusActive)).
		OrderBy("last_visit", false))
	if err != nil {
		return nil, err
	}
	urgent := make([]*Store, 0, len(rows))
	for _, s := range rows {
		if health.Classify(s.LastVisit, now) == health.Red {
			urgent = append(urgent, s)
		}
	}
	return urgent, nil
}

func (r *repository) GetByZone(ctx context.Context, zone string) ([]*Store, error) {
	return r.Find(ctx, table.Query{}.Where(table.Eq("zone", zone)).OrderBy("name", false))
}

func (r *repository) TouchLastVisit(ctx context.Context, id string, at time.Time) error {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.LastVisit != nil && !at.After(*s.LastVisit) {
		return nil
	}
	s.LastVisit = &at
	return r.Update(ctx, s)
}
