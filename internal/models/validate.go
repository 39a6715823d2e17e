package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so errors line up with request bodies.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the `validate` struct tags of a model. Failures are
// returned as validator.ValidationErrors.
func Validate(model any) error {
	return validate.Struct(model)
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&College{},
		&Student{},
		&Event{},
		&Registration{},
		&Attendance{},
		&Feedback{},
		&Admin{},
		&APIKey{},
	}
}
