package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/fieldops-backend/internal/health"
)

// Status is the trading status of a store.
type Status string

const (
	StatusActive Status = "Active"
	StatusClosed Status = "Closed"
)

// Contact is a person reachable at a store.
type Contact struct {
	Name  string `json:"name" validate:"required,max=80"`
	Role  string `json:"role,omitempty" validate:"max=40"`
	Phone string `json:"phone,omitempty" validate:"omitempty,phone"`
}

// Contacts is stored as a JSONB array.
type Contacts []Contact

func (c Contacts) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *Contacts) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	}
	return fmt.Errorf("contacts: unsupported type %T", src)
}

// Store is a retail outlet on a rep's route.
type Store struct {
	ID         uuid.UUID  `json:"id"`
	StoreCode  string     `json:"store_code"`
	Name       string     `json:"name"`
	Category   string     `json:"category,omitempty"`
	Owner      string     `json:"owner,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Zone       string     `json:"zone"`
	AreaName   string     `json:"area_name,omitempty"`
	Address    string     `json:"address,omitempty"`
	MapLink    string     `json:"map_link,omitempty"`
	Status     Status     `json:"status"`
	LastVisit  *time.Time `json:"last_visit"`
	PinnedNote string     `json:"pinned_note,omitempty"`
	Contacts   Contacts   `json:"contacts"`
	HasPOS     bool       `json:"has_pos"`
	HasSIMCard bool       `json:"has_sim_card"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s *Store) SetTimestamps(now time.Time, created bool) {
	if created {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// IsUrgent reports whether the store is trading and overdue for a visit.
func (s *Store) IsUrgent(now time.Time) bool {
	return s.Status == StatusActive && health.Classify(s.LastVisit, now) == health.Red
}

// Summary is a store with its derived health.
type Summary struct {
	*Store
	Health         health.Level `json:"health"`
	DaysSinceVisit int          `json:"days_since_visit"`
	IsUrgent       bool         `json:"is_urgent"`
}

// Summarize derives the health fields of s as seen at now.
func Summarize(s *Store, now time.Time) Summary {
	return Summary{
		Store:          s,
		Health:         health.Classify(s.LastVisit, now),
		DaysSinceVisit: health.DaysSince(s.LastVisit, now),
		IsUrgent:       s.IsUrgent(now),
	}
}
