package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/georgemunganga/fieldops-backend/internal/table"
)

const tableName = "settings"

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a settings repository over the singleton row.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Get(ctx context.Context) (*Settings, error) {
	var categories, types, reasons, offers []byte
	s := &Settings{}
	err := r.db.QueryRowContext(ctx, `
		SELECT task_categories, visit_types, visit_reasons, offer_types, updated_at
		FROM settings
		WHERE id = 1
	`).Scan(&categories, &types, &reasons, &offers, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, &table.RemoteError{Op: "select", Table: tableName, Err: err}
	}
	for _, f := range []struct {
		raw  []byte
		dest any
	}{
		{categories, &s.TaskCategories},
		{types, &s.VisitTypes},
		{reasons, &s.VisitReasons},
		{offers, &s.OfferTypes},
	} {
		if err := json.Unmarshal(f.raw, f.dest); err != nil {
			return nil, &table.RemoteError{Op: "decode", Table: tableName, Err: err}
		}
	}
	return s, nil
}

func (r *postgresRepository) Save(ctx context.Context, s *Settings) error {
	categories, _ := json.Marshal(nonNilMap(s.TaskCategories))
	types, _ := json.Marshal(nonNilList(s.VisitTypes))
	reasons, _ := json.Marshal(nonNilMap(s.VisitReasons))
	offers, _ := json.Marshal(nonNilList(s.OfferTypes))
	s.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, task_categories, visit_types, visit_reasons, offer_types, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			task_categories = EXCLUDED.task_categories,
			visit_types     = EXCLUDED.visit_types,
			visit_reasons   = EXCLUDED.visit_reasons,
			offer_types     = EXCLUDED.offer_types,
			updated_at      = EXCLUDED.updated_at
	`, categories, types, reasons, offers, s.UpdatedAt)
	if err != nil {
		return &table.RemoteError{Op: "upsert", Table: tableName, Err: err}
	}
	return nil
}

func (r *postgresRepository) SetField(ctx context.Context, field string, value json.RawMessage) error {
	if err := checkField(field, value); err != nil {
		return err
	}
	// field is one of Fields, so it is safe to splice into the statement.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, `+field+`, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET `+field+` = EXCLUDED.`+field+`, updated_at = NOW()
	`, []byte(value))
	if err != nil {
		return &table.RemoteError{Op: "update", Table: tableName, Err: err}
	}
	return nil
}

type memoryRepository struct {
	mu    sync.Mutex
	saved *Settings
}

// NewMemoryRepository keeps settings in process.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Get(context.Context) (*Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		return Defaults(), nil
	}
	cp := *r.saved
	return &cp, nil
}

func (r *memoryRepository) Save(_ context.Context, s *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.UpdatedAt = time.Now().UTC()
	cp := *s
	r.saved = &cp
	return nil
}

func (r *memoryRepository) SetField(_ context.Context, field string, value json.RawMessage) error {
	if err := checkField(field, value); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		r.saved = &Settings{}
	}
	var err error
	switch field {
	case "task_categories":
		err = json.Unmarshal(value, &r.saved.TaskCategories)
	case "visit_types":
		err = json.Unmarshal(value, &r.saved.VisitTypes)
	case "visit_reasons":
		err = json.Unmarshal(value, &r.saved.VisitReasons)
	case "offer_types":
		err = json.Unmarshal(value, &r.saved.OfferTypes)
	}
	r.saved.UpdatedAt = time.Now().UTC()
	return err
}

func nonNilMap(m map[string][]string) map[string][]string {
	if m == nil {
		return map[string][]string{}
	}
	return m
}

func nonNilList(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
