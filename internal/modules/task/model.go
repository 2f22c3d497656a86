package task

import (
	"time"

	"github.com/google/uuid"
)

// Priority of a follow-up task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Status of a follow-up task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Task is a follow-up action raised against a store.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	StoreID     uuid.UUID  `json:"store_id"`
	Cat         string     `json:"cat"`
	Sub         string     `json:"sub,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) SetTimestamps(now time.Time, created bool) {
	if created {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// IsUrgent reports whether t is pending with high priority.
func (t *Task) IsUrgent() bool {
	return t.Status == StatusPending && t.Priority == PriorityHigh
}
