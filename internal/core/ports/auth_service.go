package ports

import (
	"context"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

// RegisterInput is the raw registration form. Role is "CLIENT" or
// "EMPLOYEE"; LinkID is the optional client or employee id.
type RegisterInput struct {
	Username string
	Password string
	Role     string
	LinkID   string
}

// AuthService owns the session state machine.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, username, password string) (domain.Identity, error)
	Logout()
	Session() domain.Session
}
