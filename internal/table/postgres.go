package table

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type postgresSource[T any] struct {
	db     *sql.DB
	table  string
	mapper Mapper[T]
}

// NewPostgres returns a Source backed by a PostgreSQL table.
func NewPostgres[T any](db *sql.DB, table string, mapper Mapper[T]) Source[T] {
	return &postgresSource[T]{db: db, table: table, mapper: mapper}
}

func (s *postgresSource[T]) Table() string { return s.table }

func (s *postgresSource[T]) where(filters []Filter, args []any) (string, []any, error) {
	if len(filters) == 0 {
		return "", args, nil
	}
	columns := s.mapper.Columns()
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if columnIndex(columns, f.Column) < 0 {
			return "", nil, fmt.Errorf("unknown column %q", f.Column)
		}
		op, err := f.op()
		if err != nil {
			return "", nil, err
		}
		args = append(args, f.Value)
		parts = append(parts, fmt.Sprintf("%s%s$%d", f.Column, op, len(args)))
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

func (s *postgresSource[T]) Select(ctx context.Context, q Query) ([]*T, error) {
	columns := s.mapper.Columns()
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ","), s.table)
	where, args, err := s.where(q.Filters, nil)
	if err != nil {
		return nil, err
	}
	query += where
	if q.Order != "" {
		if columnIndex(columns, q.Order) < 0 {
			return nil, fmt.Errorf("unknown column %q", q.Order)
		}
		if q.Desc {
			query += fmt.Sprintf(" ORDER BY %s DESC NULLS LAST", q.Order)
		} else {
			query += fmt.Sprintf(" ORDER BY %s ASC NULLS FIRST", q.Order)
		}
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*T
	for rows.Next() {
		row, err := s.mapper.Scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *postgresSource[T]) Count(ctx context.Context, filters []Filter) (int, error) {
	where, args, err := s.where(filters, nil)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.table+where, args...).Scan(&n)
	return n, err
}

func (s *postgresSource[T]) Insert(ctx context.Context, row *T) error {
	columns := s.mapper.Columns()
	params := make([]string, len(columns))
	for i := range columns {
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table, strings.Join(columns, ","), strings.Join(params, ",")),
		s.mapper.Values(row)...)
	return err
}

func (s *postgresSource[T]) Update(ctx context.Context, row *T) error {
	columns := s.mapper.Columns()
	values := s.mapper.Values(row)
	sets := make([]string, 0, len(columns)-1)
	args := make([]any, 0, len(columns))
	for i := 1; i < len(columns); i++ {
		args = append(args, values[i])
		sets = append(sets, fmt.Sprintf("%s=$%d", columns[i], len(args)))
	}
	args = append(args, values[0])
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s WHERE %s=$%d", s.table, strings.Join(sets, ", "), columns[0], len(args)),
		args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", s.table, s.mapper.ID(row), ErrNotFound)
	}
	return nil
}

func (s *postgresSource[T]) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE %s=$1", s.table, s.mapper.Columns()[0]), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", s.table, id, ErrNotFound)
	}
	return nil
}
