package validator

import (
	"fmt"
	"strings"

	playground "github.com/go-playground/validator/v10"

	apperrors "github.com/jwalitptl/hms/pkg/errors"
)

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
}

type validator struct {
	v *playground.Validate
}

func New() Validator {
	return &validator{
		v: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate checks the struct's `validate` tags and reports the first
// failing fields as an InvalidInput error.
func (v *validator) Validate(obj interface{}) error {
	err := v.v.Struct(obj)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(playground.ValidationErrors)
	if !ok {
		return apperrors.NewInvalidInput("invalid input", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.NewInvalidInput(strings.Join(msgs, "; "), err)
}

func describe(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
