// Package health classifies how overdue a store is for a visit.
package health

import "time"

// Level is the derived urgency class of a store.
type Level string

const (
	Green Level = "green"
	Amber Level = "amber"
	Red   Level = "red"
)

const (
	// AmberAfter is the visit age after which a store stops being green.
	AmberAfter = 7 * 24 * time.Hour
	// RedAfter is the visit age after which a store is overdue.
	RedAfter = 14 * 24 * time.Hour
)

// Classify returns the health of a store last visited at lastVisit, as seen at now.
// A store that was never visited is red.
func Classify(lastVisit *time.Time, now time.Time) Level {
	if lastVisit == nil {
		return Red
	}
	age := now.Sub(*lastVisit)
	switch {
	case age <= AmberAfter:
		return Green
	case age <= RedAfter:
		return Amber
	default:
		return Red
	}
}

// Rank orders levels from healthiest (0) to most overdue (2).
func (l Level) Rank() int {
	switch l {
	case Green:
		return 0
	case Amber:
		return 1
	default:
		return 2
	}
}

// DaysSince returns whole days elapsed since lastVisit, or -1 if never visited.
func DaysSince(lastVisit *time.Time, now time.Time) int {
	if lastVisit == nil {
		return -1
	}
	d := int(now.Sub(*lastVisit) / (24 * time.Hour))
	if d < 0 {
		return 0
	}
	return d
}
