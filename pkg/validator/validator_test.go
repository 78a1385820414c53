package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string  `validate:"required,min=3"`
	Category string  `validate:"required,category"`
	Unit     *string `validate:"omitempty,unit"`
	Role     string  `validate:"omitempty,role"`
}

func TestValidateStruct(t *testing.T) {
	box := "box"
	crate := "crate"

	tests := []struct {
		name   string
		input  sample
		fields []string
		tags   []string
	}{
		{name: "valid", input: sample{Name: "Widget", Category: "Hardware", Unit: &box, Role: "staff"}},
		{name: "unknown category", input: sample{Name: "Widget", Category: "Toys"}, fields: []string{"sample.Category"}, tags: []string{"category"}},
		{name: "unknown unit", input: sample{Name: "Widget", Category: "Other", Unit: &crate}, fields: []string{"sample.Unit"}, tags: []string{"unit"}},
		{name: "unknown role", input: sample{Name: "Widget", Category: "Other", Role: "root"}, fields: []string{"sample.Role"}, tags: []string{"role"}},
		{name: "short name", input: sample{Name: "ab", Category: "Other"}, fields: []string{"sample.Name"}, tags: []string{"min"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(tt.input)
			require.Len(t, errs, len(tt.fields))
			for i, e := range errs {
				assert.Equal(t, tt.fields[i], e.FailedField)
				assert.Equal(t, tt.tags[i], e.Tag)
			}
		})
	}
}

func TestValidateStruct_Decimal(t *testing.T) {
	type priced struct {
		Price decimal.Decimal `validate:"gte=0"`
	}

	assert.Empty(t, ValidateStruct(priced{Price: decimal.Zero}))
	assert.Empty(t, ValidateStruct(priced{Price: decimal.RequireFromString("19.99")}))

	errs := ValidateStruct(priced{Price: decimal.RequireFromString("-0.01")})
	require.Len(t, errs, 1)
	assert.Equal(t, "gte", errs[0].Tag)
}
