package table

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned by the in-memory source on primary key clashes.
	ErrDuplicate = errors.New("duplicate key")
)

// RemoteError wraps a failed call to the backing store.
type RemoteError struct {
	Op    string
	Table string
	Err   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsDuplicate reports whether err is a unique constraint violation (PostgreSQL code 23505).
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func wrap(op, table string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return err
	}
	return &RemoteError{Op: op, Table: table, Err: err}
}
