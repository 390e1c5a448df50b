// Package validation wraps go-playground/validator so that both the core
// services and Echo (c.Validate) report failures as *domain.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

// Validator satisfies the echo.Validator interface.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator ready to be assigned to echo.Echo.Validator.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Validate checks the struct tags of i. The first failing field is reported
// in Field; Message lists every failure.
func (vv *Validator) Validate(i any) error {
	err := vv.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return &domain.ValidationError{
		Field:   fieldName(ve[0]),
		Message: strings.Join(msgs, "; "),
	}
}

func fieldName(fe validator.FieldError) string {
	f := fe.Field()
	if f == "" {
		return ""
	}
	return strings.ToLower(f[:1]) + f[1:]
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in the form %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
