package ports

import (
	"context"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

// Gateway performs protected backend calls with the current credential.
//
// On a non-success status it returns *domain.GatewayError; on success the
// JSON body is decoded into out (out may be nil).
type Gateway interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// CredentialSource exposes the live credential together with the session
// epoch it belongs to. A zero Credential means "send no Authorization header".
type CredentialSource interface {
	Current() (domain.Credential, uint64)
	Epoch() uint64
}

// SessionExpirer is notified when the backend rejects the credential that
// was issued at the given epoch.
type SessionExpirer interface {
	Expire(epoch uint64)
}

// LiveSession is the session a backend call runs under.
type LiveSession interface {
	CredentialSource
	SessionExpirer
}

// SessionLocator finds the session of the caller of a backend call.
type SessionLocator interface {
	Locate(ctx context.Context) LiveSession
}

// RegisterRequest is the payload of POST /users/register. Zero ids are not sent.
type RegisterRequest struct {
	Username   string
	Password   string
	UserType   domain.UserType
	ClientID   int64
	EmployeeID int64
}

// AuthAPI is the unauthenticated part of the backend: registration and
// identity introspection with a candidate credential.
type AuthAPI interface {
	Register(ctx context.Context, req RegisterRequest) error
	Me(ctx context.Context, cred domain.Credential) (domain.Identity, error)
}
