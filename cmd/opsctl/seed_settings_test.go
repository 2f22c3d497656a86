package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/fieldops-backend/internal/validation"
)

func TestYAMLToJSON(t *testing.T) {
	got, err := yamlToJSON([]byte("Stock:\n  - Stock count\n  - Order follow-up\nPromotion: []\n"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Stock":["Stock count","Order follow-up"],"Promotion":[]}`, string(got))

	got, err = yamlToJSON([]byte("- Routine\n- Collection\n"))
	require.NoError(t, err)
	assert.JSONEq(t, `["Routine","Collection"]`, string(got))

	_, err = yamlToJSON([]byte(""))
	assert.Error(t, err)
	_, err = yamlToJSON([]byte("a: [unterminated"))
	assert.Error(t, err)
}

func TestDecodeSettings(t *testing.T) {
	s, err := decodeSettings([]byte(`
task_categories:
  Stock: [Stock count]
visit_types: [Routine, Follow-up]
offer_types: [Bundle]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Stock count"}, s.TaskCategories["Stock"])
	assert.Equal(t, []string{"Routine", "Follow-up"}, s.VisitTypes)
	assert.Nil(t, s.VisitReasons)

	_, err = decodeSettings([]byte("visit_types: [Routine, '']\n"))
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "visit_types[1]")
}
