package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name     string `binding:"required"`
	Quantity int    `binding:"gt=0"`
	Date     string `binding:"omitempty,isodate"`
}

func TestValidateStruct(t *testing.T) {
	assert.Empty(t, ValidateStruct(sample{Name: "a", Quantity: 1, Date: "2026-01-31"}))
	assert.Empty(t, ValidateStruct(sample{Name: "a", Quantity: 1}))

	errs := ValidateStruct(sample{Quantity: 0, Date: "31/01/2026"})
	assert.Len(t, errs, 3)
	assert.Equal(t, "sample.Name", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "sample.Name failed required; sample.Quantity failed gt=0; sample.Date failed isodate", Message(errs))
}

func TestIsoDateRejectsImpossibleDay(t *testing.T) {
	errs := ValidateStruct(sample{Name: "a", Quantity: 1, Date: "2026-02-30"})
	assert.Len(t, errs, 1)
}
