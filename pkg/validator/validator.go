package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Request structs carry gin's binding tags; read the same tags here.
	validate.SetTagName("binding")
	RegisterRules(validate)
}

// RegisterRules installs the custom rules on v. Call it on gin's engine too so
// binding and service validation agree.
func RegisterRules(v *validator.Validate) {
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Message renders validation failures as one line, e.g. "Sale.Quantity failed gt=0".
func Message(errs []*ErrorResponse) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		rule := e.Tag
		if e.Value != "" {
			rule += "=" + e.Value
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", e.FailedField, rule))
	}
	return strings.Join(parts, "; ")
}
