package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
)

func TestAuthClient_RegisterQueryParams(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("User registered successfully"))
	})
	ac := NewAuthClient(NewClient(Config{BaseURL: srv.URL}), zerolog.Nop())

	err := ac.Register(context.Background(), ports.RegisterRequest{
		Username: "ana", Password: "p&w", UserType: domain.UserTypeClient, ClientID: 4,
	})
	require.NoError(t, err)

	req := fb.last(t)
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, "/api/users/register", req.path)
	require.Empty(t, req.auth)

	q, err := url.ParseQuery(req.query)
	require.NoError(t, err)
	require.Equal(t, "ana", q.Get("username"))
	require.Equal(t, "p&w", q.Get("password"))
	require.Equal(t, "CLIENT", q.Get("userType"))
	require.Equal(t, "4", q.Get("clientId"))
	require.False(t, q.Has("employeeId"))
}

func TestAuthClient_RegisterOmitsZeroLink(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ac := NewAuthClient(NewClient(Config{BaseURL: srv.URL}), zerolog.Nop())

	require.NoError(t, ac.Register(context.Background(), ports.RegisterRequest{
		Username: "ivan", Password: "pw", UserType: domain.UserTypeEmployee,
	}))

	q, err := url.ParseQuery(fb.last(t).query)
	require.NoError(t, err)
	require.False(t, q.Has("clientId"))
	require.False(t, q.Has("employeeId"))
}

func TestAuthClient_RegisterRejected(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Username already exists"))
	})
	ac := NewAuthClient(NewClient(Config{BaseURL: srv.URL}), zerolog.Nop())

	err := ac.Register(context.Background(), ports.RegisterRequest{Username: "ana", Password: "pw", UserType: domain.UserTypeClient})
	var ge *domain.GatewayError
	require.True(t, errors.As(err, &ge))
	require.Equal(t, "Username already exists", ge.Body)
}

func TestAuthClient_MeDecodesVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.UserType
	}{
		{"client", `{"username":"ana","userType":"CLIENT","client":{"id":4,"name":"Ana"}}`, domain.UserTypeClient},
		{"employee", `{"username":"ivan","userType":"EMPLOYEE","employee":{"id":2,"name":"Ivan","role":"COURIER"}}`, domain.UserTypeEmployee},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})
			ac := NewAuthClient(NewClient(Config{BaseURL: srv.URL}), zerolog.Nop())

			id, err := ac.Me(context.Background(), domain.NewBasicCredential("alice", "secret"))
			require.NoError(t, err)
			require.Equal(t, tc.want, id.Type())

			req := fb.last(t)
			require.Equal(t, "/api/auth/me", req.path)
			require.Equal(t, "Basic YWxpY2U6c2VjcmV0", req.auth)
		})
	}
}

func TestAuthClient_MeMalformed(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"username":"","userType":"CLIENT"}`))
	})
	ac := NewAuthClient(NewClient(Config{BaseURL: srv.URL}), zerolog.Nop())

	_, err := ac.Me(context.Background(), domain.NewBasicCredential("a", "b"))
	require.ErrorIs(t, err, domain.ErrMalformedIdentity)
}

func TestAuthClient_MeUnauthorized(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	ac := NewAuthClient(NewClient(Config{BaseURL: srv.URL}), zerolog.Nop())

	_, err := ac.Me(context.Background(), domain.NewBasicCredential("a", "b"))
	require.True(t, domain.IsUnauthorized(err))
}

func TestAuthClient_Ping(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	ac := NewAuthClient(NewClient(Config{BaseURL: srv.URL}), zerolog.Nop())

	require.NoError(t, ac.Ping(context.Background()))
	require.Empty(t, fb.last(t).auth)

	srv.Close()
	require.Error(t, ac.Ping(context.Background()))
}
