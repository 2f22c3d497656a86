package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownField is returned by SetField for a column that is not a settings map.
var ErrUnknownField = errors.New("unknown settings field")

// Fields lists the columns SetField accepts.
var Fields = []string{"task_categories", "visit_types", "visit_reasons", "offer_types"}

// Repository persists the singleton settings row.
type Repository interface {
	// Get returns the stored settings, or Defaults when none were saved.
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
	// SetField replaces a single column with value, which must decode into
	// that field's type.
	SetField(ctx context.Context, field string, value json.RawMessage) error
}

// checkField verifies that value has the shape of field.
func checkField(field string, value json.RawMessage) error {
	var err error
	switch field {
	case "task_categories", "visit_reasons":
		var m map[string][]string
		err = json.Unmarshal(value, &m)
	case "visit_types", "offer_types":
		var l []string
		err = json.Unmarshal(value, &l)
	default:
		return ErrUnknownField
	}
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}
