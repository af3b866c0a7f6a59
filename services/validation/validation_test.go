package validation_test

import (
	"testing"
	"time"

	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID       string   `json:"id" validate:"required,mongodb"`
	Category string   `json:"category" validate:"required,skill"`
	Field    string   `json:"field" validate:"required,specialty"`
	Due      string   `json:"due" validate:"required,isodate"`
	Count    *int     `json:"count" validate:"required,min=0"`
	Skills   []string `json:"skills" validate:"min=1,dive,skill"`
}

func TestStructValid(t *testing.T) {
	n := 2
	err := validation.Struct(sample{
		ID:       "64b7f0c2a1b2c3d4e5f60718",
		Category: "Electrical",
		Field:    "Wiring Repair",
		Due:      "2026-11-01",
		Count:    &n,
		Skills:   []string{"Plumbing"},
	})
	assert.NoError(t, err)
}

func TestStructCollectsFieldMessages(t *testing.T) {
	n := -1
	err := validation.Struct(sample{
		ID:       "not-an-id",
		Category: "Juggling",
		Field:    "Knitting",
		Due:      "next tuesday",
		Count:    &n,
		Skills:   []string{"Electrical", "Juggling"},
	})
	require.Error(t, err)

	var aerr *apperr.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, apperr.KindValidation, aerr.Kind)
	assert.Equal(t, "invalid id", aerr.Fields["id"])
	assert.Equal(t, "invalid category", aerr.Fields["category"])
	assert.Equal(t, "invalid field", aerr.Fields["field"])
	assert.Equal(t, "invalid date format", aerr.Fields["due"])
	assert.Equal(t, "count must be at least 0", aerr.Fields["count"])
	assert.Equal(t, "invalid category", aerr.Fields["skills[1]"])
}

func TestStructRequired(t *testing.T) {
	err := validation.Struct(sample{Skills: []string{"Electrical"}})

	var aerr *apperr.Error
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Fields, "id")
	assert.Contains(t, aerr.Fields, "count")
}

func TestParseDate(t *testing.T) {
	d, err := validation.ParseDate("2026-11-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = validation.ParseDate("2026-11-01T10:30:00Z")
	assert.NoError(t, err)

	_, err = validation.ParseDate("01/11/2026")
	assert.Error(t, err)
}
