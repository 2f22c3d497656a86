package settings

import (
	"slices"
	"time"
)

// Settings is the tenant-wide configuration record. There is exactly one.
type Settings struct {
	TaskCategories map[string][]string `json:"task_categories" yaml:"task_categories" validate:"dive,keys,required,endkeys,dive,required"`
	VisitTypes     []string            `json:"visit_types" yaml:"visit_types" validate:"dive,required"`
	VisitReasons   map[string][]string `json:"visit_reasons" yaml:"visit_reasons" validate:"dive,keys,required,endkeys,dive,required"`
	OfferTypes     []string            `json:"offer_types" yaml:"offer_types" validate:"dive,required"`
	UpdatedAt      time.Time           `json:"updated_at" yaml:"-"`
}

// Defaults is the configuration used until one is saved.
func Defaults() *Settings {
	return &Settings{
		TaskCategories: map[string][]string{
			"Merchandising": {"Shelf audit", "Planogram reset", "Price tagging"},
			"Stock":         {"Stock count", "Order follow-up"},
			"Promotion":     {"Install POS material", "Offer briefing"},
		},
		VisitTypes: []string{"Routine", "Follow-up", "Promotion", "Collection"},
		VisitReasons: map[string][]string{
			"Follow-up": {"Open task", "Complaint", "Stock-out"},
			"Promotion": {"New offer", "Display check"},
		},
		OfferTypes: []string{"Discount", "Bundle", "Free gift"},
	}
}

// AllowsTask reports whether cat (and sub, when given) is a configured task
// category. An empty category map allows everything.
func (s *Settings) AllowsTask(cat, sub string) bool {
	if len(s.TaskCategories) == 0 {
		return true
	}
	subs, ok := s.TaskCategories[cat]
	if !ok {
		return false
	}
	if sub == "" || len(subs) == 0 {
		return true
	}
	return slices.Contains(subs, sub)
}

// AllowsVisitType reports whether t is a configured visit type. An empty
// list allows everything.
func (s *Settings) AllowsVisitType(t string) bool {
	return len(s.VisitTypes) == 0 || slices.Contains(s.VisitTypes, t)
}
