package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

type form struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Role  string `validate:"omitempty,oneof=COURIER OFFICE_STAFF"`
	Count int    `validate:"gt=0"`
}

func TestValidate_OK(t *testing.T) {
	if err := New().Validate(form{Name: "a", Email: "a@b.co", Count: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	err := New().Validate(form{Email: "nope", Role: "BOSS"})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	if ve.Field != "name" {
		t.Errorf("expected first field name, got %q", ve.Field)
	}
	for _, want := range []string{
		"name is required",
		"email must be a valid email",
		"role must be one of: COURIER OFFICE_STAFF",
		"count must be greater than 0",
	} {
		if !strings.Contains(ve.Message, want) {
			t.Errorf("message %q lacks %q", ve.Message, want)
		}
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := New().Validate("x")
	var ve *domain.ValidationError
	if err == nil || errors.As(err, &ve) {
		t.Fatalf("expected a plain error, got %v", err)
	}
}
