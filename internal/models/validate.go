package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match what clients sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationError describes the first rule a request failed.
type ValidationError struct {
	Field   string
	Tag     string
	Param   string
	numeric bool
}

func (e *ValidationError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case "min":
		if e.numeric {
			return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
		}
		return fmt.Sprintf("%s must be at least %s characters", e.Field, e.Param)
	case "max":
		if e.numeric {
			return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
		}
		return fmt.Sprintf("%s must be at most %s characters", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s is invalid (%s)", e.Field, e.Tag)
	}
}

// Validate checks a request struct against its validate tags.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		kind := fe.Kind()
		return &ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			numeric: kind >= reflect.Int && kind <= reflect.Float64,
		}
	}
	return fmt.Errorf("validating request: %w", err)
}
