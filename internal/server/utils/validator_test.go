package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type locationQuery struct {
	City  string `form:"city" validate:"omitempty,max=20,location"`
	Units string `form:"units" validate:"omitempty,oneof=metric imperial"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name  string
		query locationQuery
		field string
		rule  string
	}{
		{"empty is fine", locationQuery{}, "", ""},
		{"zip", locationQuery{City: "94103"}, "", ""},
		{"zip with country", locationQuery{City: "10115,de"}, "", ""},
		{"place name", locationQuery{City: "St. John's"}, "", ""},
		{"accented", locationQuery{City: "Zürich"}, "", ""},
		{"markup", locationQuery{City: "<b>"}, "city", "location"},
		{"whitespace only", locationQuery{City: "   "}, "city", "location"},
		{"too long", locationQuery{City: "Llanfairpwllgwyngyll-gogery"}, "city", "max"},
		{"units", locationQuery{Units: "kelvin"}, "units", "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(tt.query)
			if tt.field == "" {
				assert.Empty(t, errs)
				return
			}

			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.rule, errs[0].Rule)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestValidateStruct_Required(t *testing.T) {
	type search struct {
		Query string `form:"query" validate:"required"`
	}

	errs := ValidateStruct(search{})
	require.Len(t, errs, 1)
	assert.Equal(t, "query", errs[0].Field)
	assert.Equal(t, "required", errs[0].Rule)
	assert.Equal(t, "query is required", errs[0].Message)
}

func TestFormatValidationErrors_OtherErrors(t *testing.T) {
	assert.Nil(t, FormatValidationErrors(nil))
	assert.Nil(t, FormatValidationErrors(assert.AnError))
}
