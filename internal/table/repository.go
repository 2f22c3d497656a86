package table

import (
	"context"
	"fmt"
	"time"
)

// DefaultPageSize is used when a caller asks for a page without a limit.
const DefaultPageSize = 20

// Repository is the shared base of every entity repository: plain CRUD over a
// Source plus range-based pagination. Backend failures come back as *RemoteError.
type Repository[T any] struct {
	src   Source[T]
	order string
	desc  bool
	now   func() time.Time
}

// NewRepository wraps src. order is the column GetAll and GetPaginated sort by.
func NewRepository[T any](src Source[T], order string, desc bool) *Repository[T] {
	return &Repository[T]{src: src, order: order, desc: desc, now: time.Now}
}

// Table returns the backing table name.
func (r *Repository[T]) Table() string { return r.src.Table() }

// GetAll returns every row of the table.
func (r *Repository[T]) GetAll(ctx context.Context) ([]*T, error) {
	rows, err := r.src.Select(ctx, Query{}.OrderBy(r.order, r.desc))
	if err != nil {
		return nil, wrap("select", r.src.Table(), err)
	}
	return rows, nil
}

// Find runs an arbitrary query against the table.
func (r *Repository[T]) Find(ctx context.Context, q Query) ([]*T, error) {
	rows, err := r.src.Select(ctx, q)
	if err != nil {
		return nil, wrap("select", r.src.Table(), err)
	}
	return rows, nil
}

// GetByID returns the row whose primary key is id, or ErrNotFound.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	rows, err := r.Find(ctx, Query{}.Where(Eq("id", id)).Take(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %s: %w", r.src.Table(), id, ErrNotFound)
	}
	return rows[0], nil
}

// Create inserts row.
func (r *Repository[T]) Create(ctx context.Context, row *T) error {
	if ts, ok := any(row).(Timestamped); ok {
		ts.SetTimestamps(r.now().UTC(), true)
	}
	return wrap("insert", r.src.Table(), r.src.Insert(ctx, row))
}

// Update replaces the stored row with the same primary key.
func (r *Repository[T]) Update(ctx context.Context, row *T) error {
	if ts, ok := any(row).(Timestamped); ok {
		ts.SetTimestamps(r.now().UTC(), false)
	}
	return wrap("update", r.src.Table(), r.src.Update(ctx, row))
}

// Delete removes the row with primary key id.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return wrap("delete", r.src.Table(), r.src.Delete(ctx, id))
}

// GetPaginated returns the 1-based page of rows matching filters.
func (r *Repository[T]) GetPaginated(ctx context.Context, page, limit int, filters ...Filter) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	from := (page - 1) * limit
	q := Query{Filters: filters}.OrderBy(r.order, r.desc).Range(from, from+limit-1)

	rows, err := r.src.Select(ctx, q)
	if err != nil {
		return nil, wrap("select", r.src.Table(), err)
	}
	count, err := r.src.Count(ctx, filters)
	if err != nil {
		return nil, wrap("count", r.src.Table(), err)
	}
	if rows == nil {
		rows = []*T{}
	}
	return &Page[T]{Data: rows, Count: count, HasMore: page*limit < count}, nil
}
