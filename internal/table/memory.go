package table

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

type memorySource[T any] struct {
	mu     sync.RWMutex
	table  string
	mapper Mapper[T]
	rows   []*T
}

// NewMemory returns an in-process Source with the same filter, order and
// range semantics as the PostgreSQL source. Rows are copied in and out.
func NewMemory[T any](table string, mapper Mapper[T]) Source[T] {
	return &memorySource[T]{table: table, mapper: mapper}
}

func (s *memorySource[T]) Table() string { return s.table }

func (s *memorySource[T]) matches(row *T, filters []Filter) (bool, error) {
	columns := s.mapper.Columns()
	values := s.mapper.Values(row)
	for _, f := range filters {
		i := columnIndex(columns, f.Column)
		if i < 0 {
			return false, fmt.Errorf("unknown column %q", f.Column)
		}
		op, err := f.op()
		if err != nil {
			return false, err
		}
		switch op {
		case OpEq:
			if compareValues(values[i], f.Value) != 0 {
				return false, nil
			}
		case OpGte:
			if normalize(values[i]) == nil || compareValues(values[i], f.Value) < 0 {
				return false, nil
			}
		}
	}
	return true, nil
}

func (s *memorySource[T]) Select(_ context.Context, q Query) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*T
	for _, row := range s.rows {
		ok, err := s.matches(row, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			cp := *row
			out = append(out, &cp)
		}
	}

	if q.Order != "" {
		i := columnIndex(s.mapper.Columns(), q.Order)
		if i < 0 {
			return nil, fmt.Errorf("unknown column %q", q.Order)
		}
		sort.SliceStable(out, func(a, b int) bool {
			c := compareValues(s.mapper.Values(out[a])[i], s.mapper.Values(out[b])[i])
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *memorySource[T]) Count(_ context.Context, filters []Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, row := range s.rows {
		ok, err := s.matches(row, filters)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (s *memorySource[T]) Insert(_ context.Context, row *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.mapper.ID(row)
	for _, r := range s.rows {
		if s.mapper.ID(r) == id {
			return fmt.Errorf("%s %s: %w", s.table, id, ErrDuplicate)
		}
	}
	cp := *row
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *memorySource[T]) Update(_ context.Context, row *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.mapper.ID(row)
	for i, r := range s.rows {
		if s.mapper.ID(r) == id {
			cp := *row
			s.rows[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("%s %s: %w", s.table, id, ErrNotFound)
}

func (s *memorySource[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if s.mapper.ID(r) == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s %s: %w", s.table, id, ErrNotFound)
}

// normalize reduces column values to a small set of comparable kinds:
// nil, time.Time, string, int64, float64, bool. Named string types and
// Stringers (uuid.UUID) compare as strings.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	if t, ok := v.(time.Time); ok {
		return t
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	}
	return v
}

// compareValues orders normalized values; nil sorts first.
func compareValues(a, b any) int {
	a, b = normalize(a), normalize(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
