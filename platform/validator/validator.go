// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// FieldError is a flattened validation failure suitable for API responses.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// New creates a new Validator instance with the shared custom rules
// (notblank) registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Fields converts a validation error into field/rule pairs. Errors that are
// not validation errors yield nil.
func Fields(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return fields
}
