package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMalformedIdentity = errors.New("malformed identity")
	ErrStaleSession      = errors.New("session changed while the request was in flight")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrViewNotAllowed    = errors.New("view not available for this user")
	ErrNotLinked         = errors.New("account is not linked to a client record")
)

// ValidationError reports missing or invalid local input. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// AuthenticationError reports a failed login. Message is safe to show to the user.
type AuthenticationError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string { return e.Message }
func (e *AuthenticationError) Unwrap() error { return e.Err }

// RegistrationError reports a registration the backend rejected.
type RegistrationError struct {
	Status  int
	Message string
}

func (e *RegistrationError) Error() string {
	return "registration failed: " + e.Message
}

// GatewayError is a non-success response from a protected call. Body is the
// raw response body; it is never parsed.
type GatewayError struct {
	Status int
	Body   string
}

func (e *GatewayError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("backend responded %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, body)
}

// Unauthorized reports whether the backend rejected the credential.
func (e *GatewayError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// IsUnauthorized reports whether err is an authorization-rejected GatewayError.
func IsUnauthorized(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.Unauthorized()
}
