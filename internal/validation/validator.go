// Package validation validates submitted forms using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
	// overrides maps "field.tag" to a message replacing the generic one.
	overrides map[string]string
}

// New creates a validator that reports fields by their form names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{
		v: v,
		overrides: map[string]string{
			"year.gte":      fmt.Sprintf("must be between %d and %d", MinYear, MaxYear),
			"year.lte":      fmt.Sprintf("must be between %d and %d", MinYear, MaxYear),
			"genre_ids.min": "select at least one genre",
		},
	}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	return v.ValidateWith(s, nil)
}

// ValidateWith validates s and merges parse errors collected while decoding
// the form. Parse errors win over validation messages for the same field.
func (v *Validator) ValidateWith(s any, parseErrors map[string]string) error {
	fieldErrors := make(map[string]string)

	if err := v.v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		for _, e := range validationErrs {
			fieldErrors[e.Field()] = v.message(e)
		}
	}

	maps.Copy(fieldErrors, parseErrors)

	if len(fieldErrors) == 0 {
		return nil
	}
	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func (v *Validator) message(e validator.FieldError) string {
	if msg, ok := v.overrides[e.Field()+"."+e.Tag()]; ok {
		return msg
	}
	return friendlyMessage(e)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	default:
		return "is invalid"
	}
}
