package visit

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a visit.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
)

// Visit is a planned or completed call on a store.
type Visit struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Reason      string    `json:"reason,omitempty"`
	Note        string    `json:"note,omitempty"`
	Status      Status    `json:"status"`
	IsEffective *bool     `json:"is_effective"` // set on completion
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (v *Visit) SetTimestamps(now time.Time, created bool) {
	if created {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
}

// PerformanceWindow is how far back GetPerformanceMetrics looks.
const PerformanceWindow = 7 * 24 * time.Hour

// Performance summarises completed visits over a window.
type Performance struct {
	Total     int       `json:"total"`
	Effective int       `json:"effective"`
	Rate      int       `json:"rate"` // percent, rounded
	Since     time.Time `json:"since"`
}

// PerformanceRate returns effective/total as a rounded percentage, or 0 when
// there were no visits.
func PerformanceRate(effective, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(effective) / float64(total) * 100))
}
