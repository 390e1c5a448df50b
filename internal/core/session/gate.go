package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
)

// Listener is called after every session transition.
type Listener func(domain.Session)

// Gate implements ports.AuthService and ports.SessionExpirer. It is the only
// writer of the Store.
type Gate struct {
	store *Store
	api   ports.AuthAPI
	log   zerolog.Logger

	mu        sync.Mutex
	listeners []Listener
}

// NewGate returns a Gate that verifies logins through api.
func NewGate(store *Store, api ports.AuthAPI, log zerolog.Logger) *Gate {
	return &Gate{store: store, api: api, log: log}
}

// OnChange registers l for session transitions.
func (g *Gate) OnChange(l Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, l)
}

// Session returns the current read-only session view.
func (g *Gate) Session() domain.Session {
	return g.store.Snapshot()
}

// Register creates an account. It never authenticates; the caller shows the
// login view on success.
func (g *Gate) Register(ctx context.Context, in ports.RegisterInput) error {
	return register(ctx, g.api, g.log, in)
}

func register(ctx context.Context, api ports.AuthAPI, log zerolog.Logger, in ports.RegisterInput) error {
	username := strings.TrimSpace(in.Username)
	if err := requireCredentials(username, in.Password); err != nil {
		return err
	}

	userType, ok := domain.ParseUserType(in.Role)
	if !ok {
		return domain.NewValidationError("role", "role must be CLIENT or EMPLOYEE")
	}

	req := ports.RegisterRequest{Username: username, Password: in.Password, UserType: userType}
	if link := strings.TrimSpace(in.LinkID); link != "" {
		id, err := strconv.ParseInt(link, 10, 64)
		if err != nil || id <= 0 {
			return domain.NewValidationError("linkId", "link id must be a positive number")
		}
		switch userType {
		case domain.UserTypeClient:
			req.ClientID = id
		case domain.UserTypeEmployee:
			req.EmployeeID = id
		}
	}

	if err := api.Register(ctx, req); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("registration rejected")
		return registrationError(err)
	}

	log.Info().Str("username", username).Str("user_type", string(userType)).Msg("user registered")
	return nil
}

// Login verifies username/password with one introspection call and, on
// success, makes the resulting credential the live one.
func (g *Gate) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	username = strings.TrimSpace(username)
	if err := requireCredentials(username, password); err != nil {
		return nil, err
	}

	cred := domain.NewBasicCredential(username, password)
	epoch := g.store.begin()
	g.notify()

	id, err := g.api.Me(ctx, cred)
	if err != nil {
		if g.store.fail(epoch) {
			g.notify()
		}
		g.log.Warn().Err(err).Str("username", username).Msg("login failed")
		return nil, authenticationError(err)
	}

	if !g.store.complete(epoch, cred, id) {
		g.log.Info().Str("username", username).Msg("login superseded")
		return nil, &domain.AuthenticationError{
			Message: "login was interrupted, please try again",
			Err:     domain.ErrStaleSession,
		}
	}
	g.notify()

	g.log.Info().Str("username", username).Str("user_type", string(id.Type())).Msg("logged in")
	return id, nil
}

// Current returns the live credential and its epoch.
func (g *Gate) Current() (domain.Credential, uint64) {
	return g.store.Current()
}

// Epoch returns the current session epoch.
func (g *Gate) Epoch() uint64 {
	return g.store.Epoch()
}

// Logout drops the credential. It always succeeds and is idempotent.
func (g *Gate) Logout() {
	if g.store.clear(0) {
		g.log.Info().Msg("logged out")
		g.notify()
	}
}

// Expire is called when the backend rejected the credential issued at epoch.
// Rejections from an earlier session are ignored.
func (g *Gate) Expire(epoch uint64) {
	if g.store.clear(epoch) {
		g.log.Warn().Uint64("epoch", epoch).Msg("credential rejected by backend, session closed")
		g.notify()
	}
}

func (g *Gate) notify() {
	snap := g.store.Snapshot()
	g.mu.Lock()
	listeners := append([]Listener(nil), g.listeners...)
	g.mu.Unlock()
	for _, l := range listeners {
		l(snap)
	}
}

func requireCredentials(username, password string) error {
	if username == "" {
		return domain.NewValidationError("username", "username is required")
	}
	if strings.TrimSpace(password) == "" {
		return domain.NewValidationError("password", "password is required")
	}
	return nil
}

func authenticationError(err error) *domain.AuthenticationError {
	var ge *domain.GatewayError
	switch {
	case errors.As(err, &ge):
		if ge.Status == http.StatusUnauthorized || ge.Status == http.StatusForbidden {
			return &domain.AuthenticationError{Status: ge.Status, Message: "invalid username or password", Err: err}
		}
		return &domain.AuthenticationError{
			Status:  ge.Status,
			Message: fmt.Sprintf("login failed: server responded %d", ge.Status),
			Err:     err,
		}
	case errors.Is(err, domain.ErrMalformedIdentity):
		return &domain.AuthenticationError{Message: "login failed: unexpected response from server", Err: err}
	default:
		return &domain.AuthenticationError{Message: "login failed: server unreachable", Err: err}
	}
}

func registrationError(err error) *domain.RegistrationError {
	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		msg := strings.TrimSpace(ge.Body)
		if msg == "" {
			msg = strconv.Itoa(ge.Status)
		}
		return &domain.RegistrationError{Status: ge.Status, Message: msg}
	}
	return &domain.RegistrationError{Message: "server unreachable"}
}

var (
	_ ports.AuthService = (*Gate)(nil)
	_ ports.LiveSession = (*Gate)(nil)
)
