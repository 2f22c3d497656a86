// Package dashboard aggregates stores, visits and tasks into the home screen
// figures.
package dashboard

import (
	"time"

	"github.com/georgemunganga/fieldops-backend/internal/modules/store"
	"github.com/georgemunganga/fieldops-backend/internal/modules/task"
	"github.com/georgemunganga/fieldops-backend/internal/modules/visit"
)

// Metrics are the dashboard counters.
type Metrics struct {
	PendingTasks int    `json:"pending_tasks"`
	UrgentTasks  int    `json:"urgent_tasks"`
	TodayVisits  int    `json:"today_visits"`
	WeekVisits   int    `json:"week_visits"`
	TotalStores  int    `json:"total_stores"`
	ActiveStores int    `json:"active_stores"`
	UrgentStores int    `json:"urgent_stores"`
	Greeting     string `json:"greeting"`
}

// Greeting returns the salutation for the hour of now.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// startOfDay is midnight of t's calendar day in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CalculateMetrics counts the dashboard figures as seen at now. Today and week
// count scheduled visits only; the week is the seven days starting today.
func CalculateMetrics(stores []*store.Store, visits []*visit.Visit, tasks []*task.Task, now time.Time) Metrics {
	m := Metrics{Greeting: Greeting(now), TotalStores: len(stores)}

	for _, t := range tasks {
		if t.Status == task.StatusPending {
			m.PendingTasks++
			if t.Priority == task.PriorityHigh {
				m.UrgentTasks++
			}
		}
	}

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekEnd := today.AddDate(0, 0, 7)
	for _, v := range visits {
		if v.Status != visit.StatusScheduled {
			continue
		}
		d := v.Date.In(now.Location())
		if d.Before(today) || !d.Before(weekEnd) {
			continue
		}
		m.WeekVisits++
		if d.Before(tomorrow) {
			m.TodayVisits++
		}
	}

	for _, s := range stores {
		if s.Status == store.StatusActive {
			m.ActiveStores++
		}
		if s.IsUrgent(now) {
			m.UrgentStores++
		}
	}
	return m
}
