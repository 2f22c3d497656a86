// Package table is the thin query client every entity repository is built on.
// It exposes the same small call surface for every table (select, insert,
// update, delete, range, eq) and a generic Repository with the shared CRUD and
// pagination operations.
package table

import (
	"context"
	"fmt"
	"time"
)

// Mapper describes how rows of T map onto table columns.
// Columns and Values must be aligned; the first column is the primary key.
type Mapper[T any] interface {
	Columns() []string
	Values(row *T) []any
	Scan(scan func(dest ...any) error) (*T, error)
	ID(row *T) string
}

// Source is the uniform call surface of a remote table.
type Source[T any] interface {
	Table() string
	Select(ctx context.Context, q Query) ([]*T, error)
	Count(ctx context.Context, filters []Filter) (int, error)
	Insert(ctx context.Context, row *T) error
	Update(ctx context.Context, row *T) error
	Delete(ctx context.Context, id string) error
}

// Timestamped rows get created_at / updated_at maintained by Repository.
type Timestamped interface {
	SetTimestamps(now time.Time, created bool)
}

// Operators a Filter can apply.
const (
	OpEq  = "="
	OpGte = ">="
)

// Filter is a comparison predicate on one column. An empty Op means OpEq.
type Filter struct {
	Column string
	Op     string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Gte keeps rows whose column is at or above value. NULL never matches.
func Gte(column string, value any) Filter {
	return Filter{Column: column, Op: OpGte, Value: value}
}

func (f Filter) op() (string, error) {
	switch f.Op {
	case "", OpEq:
		return OpEq, nil
	case OpGte:
		return OpGte, nil
	}
	return "", fmt.Errorf("unsupported operator %q", f.Op)
}

// Query selects rows. A zero Query selects everything in storage order.
type Query struct {
	Filters []Filter
	Order   string
	Desc    bool
	Offset  int
	Limit   int // 0 means no limit
}

// Where returns a copy of q with the filters appended.
func (q Query) Where(filters ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), filters...)
	return q
}

// OrderBy returns a copy of q ordered by column.
func (q Query) OrderBy(column string, desc bool) Query {
	q.Order = column
	q.Desc = desc
	return q
}

// Range restricts q to the inclusive row range [from, to].
func (q Query) Range(from, to int) Query {
	if from < 0 {
		from = 0
	}
	q.Offset = from
	q.Limit = to - from + 1
	if q.Limit < 0 {
		q.Limit = 0
	}
	return q
}

// Take caps the number of returned rows.
func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data    []*T `json:"data"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

func columnIndex(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
