package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/core/service"
	"github.com/99minutos/logistics-console/internal/core/session"
	"github.com/99minutos/logistics-console/internal/pkg/validation"
)

type fakeCreds struct {
	mu    sync.Mutex
	cred  domain.Credential
	epoch uint64
}

func (f *fakeCreds) Current() (domain.Credential, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cred, f.epoch
}

func (f *fakeCreds) Epoch() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epoch
}

func (f *fakeCreds) set(cred domain.Credential) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cred = cred
	f.epoch++
}

type fakeExpirer struct {
	epochs []uint64
}

func (f *fakeExpirer) Expire(epoch uint64) { f.epochs = append(f.epochs, epoch) }

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	hasReq string
	ctype  string
	body   string
	cookie string
}

type fakeBackend struct {
	mu    sync.Mutex
	reqs  []recorded
	route func(w http.ResponseWriter, r *http.Request)
}

func newFakeBackend(t *testing.T, route func(w http.ResponseWriter, r *http.Request)) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{route: route}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		fb.mu.Lock()
		fb.reqs = append(fb.reqs, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			hasReq: r.Header.Get(headerRequestID),
			ctype:  r.Header.Get("Content-Type"),
			body:   string(body),
			cookie: r.Header.Get("Cookie"),
		})
		fb.mu.Unlock()
		fb.route(w, r)
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) last(t *testing.T) recorded {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.reqs, "backend received no request")
	return fb.reqs[len(fb.reqs)-1]
}

// fixedSession serves every call from the same credentials and expirer.
type fixedSession struct {
	ports.CredentialSource
	ports.SessionExpirer
}

func (s fixedSession) Locate(context.Context) ports.LiveSession { return s }

func newTestGateway(srv *httptest.Server, creds ports.CredentialSource, exp ports.SessionExpirer) *Gateway {
	return NewGateway(NewClient(Config{BaseURL: srv.URL}), fixedSession{creds, exp}, zerolog.Nop())
}

func TestGateway_AttachesCredentialAndRequestID(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Acme","address":"Main St 1","phone":"555"}]`))
	})
	creds := &fakeCreds{}
	creds.set(domain.NewBasicCredential("alice", "secret"))
	gw := newTestGateway(srv, creds, &fakeExpirer{})

	var out []domain.Company
	require.NoError(t, gw.Do(context.Background(), http.MethodGet, "/companies", nil, &out))
	require.Len(t, out, 1)
	require.Equal(t, "Acme", out[0].Name)

	req := fb.last(t)
	require.Equal(t, "/api/companies", req.path)
	require.Equal(t, "Basic YWxpY2U6c2VjcmV0", req.auth)
	require.NotEmpty(t, req.hasReq)
}

func TestGateway_NoAuthorizationWithoutCredential(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	creds := &fakeCreds{}
	creds.set(domain.NewBasicCredential("alice", "secret"))
	gw := newTestGateway(srv, creds, &fakeExpirer{})

	require.NoError(t, gw.Do(context.Background(), http.MethodGet, "/offices", nil, nil))
	require.NotEmpty(t, fb.last(t).auth)

	// logout
	creds.set(domain.Credential{})
	require.NoError(t, gw.Do(context.Background(), http.MethodGet, "/offices", nil, nil))
	require.Empty(t, fb.last(t).auth, "request after logout carried an Authorization header")
}

func TestGateway_IgnoresSessionCookies(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	gw := newTestGateway(srv, &fakeCreds{}, &fakeExpirer{})

	require.NoError(t, gw.Do(context.Background(), http.MethodGet, "/clients", nil, nil))
	require.NoError(t, gw.Do(context.Background(), http.MethodGet, "/clients", nil, nil))

	require.Empty(t, fb.last(t).cookie, "backend session cookie was replayed")
}

func TestGateway_UnauthorizedExpiresIssuingEpoch(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	creds := &fakeCreds{}
	creds.set(domain.NewBasicCredential("alice", "secret"))
	exp := &fakeExpirer{}
	gw := newTestGateway(srv, creds, exp)

	err := gw.Do(context.Background(), http.MethodGet, "/shipments/all", nil, nil)
	require.True(t, domain.IsUnauthorized(err))
	require.Equal(t, []uint64{1}, exp.epochs)
}

func TestGateway_ForbiddenDoesNotExpire(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("Only employees can view all shipments."))
	})
	exp := &fakeExpirer{}
	gw := newTestGateway(srv, &fakeCreds{}, exp)

	err := gw.Do(context.Background(), http.MethodGet, "/shipments/all", nil, nil)
	var ge *domain.GatewayError
	require.True(t, errors.As(err, &ge))
	require.Equal(t, http.StatusForbidden, ge.Status)
	require.Equal(t, "Only employees can view all shipments.", ge.Body)
	require.Empty(t, exp.epochs)
}

func TestGateway_StaleResponseDiscarded(t *testing.T) {
	creds := &fakeCreds{}
	creds.set(domain.NewBasicCredential("alice", "secret"))
	exp := &fakeExpirer{}

	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		// The user logs out while the request is in flight.
		creds.set(domain.Credential{})
		w.WriteHeader(http.StatusUnauthorized)
	})
	gw := newTestGateway(srv, creds, exp)

	err := gw.Do(context.Background(), http.MethodGet, "/companies", nil, nil)
	require.ErrorIs(t, err, domain.ErrStaleSession)
	require.Empty(t, exp.epochs, "stale 401 must not expire the newer session")
}

func TestGateway_EmptyBodyIsSuccess(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	gw := newTestGateway(srv, &fakeCreds{}, &fakeExpirer{})

	var out domain.Company
	require.NoError(t, gw.Do(context.Background(), http.MethodDelete, "/companies/3", nil, &out))
}

func TestGateway_NumberBodyDecodesToFloat(t *testing.T) {
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("42"))
	})
	gw := newTestGateway(srv, &fakeCreds{}, &fakeExpirer{})

	var total float64
	require.NoError(t, gw.Do(context.Background(), http.MethodGet, "/shipments/revenue?startDate=2024-01-01&endDate=2024-01-31", nil, &total))
	require.InDelta(t, 42.0, total, 0.0001)
}

func TestGateway_JSONBodyAndContentType(t *testing.T) {
	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":9,"city":"Sofia","address":"Vitosha 1"}`))
	})
	gw := newTestGateway(srv, &fakeCreds{}, &fakeExpirer{})

	var out domain.Office
	require.NoError(t, gw.Do(context.Background(), http.MethodPost, "/offices", domain.Office{City: "Sofia", Address: "Vitosha 1"}, &out))
	require.Equal(t, int64(9), out.ID)

	req := fb.last(t)
	require.Contains(t, req.ctype, "application/json")
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.body), &sent))
	require.Equal(t, "Sofia", sent["city"])
	require.NotContains(t, sent, "id")
}

func TestGateway_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	gw := newTestGateway(srv, &fakeCreds{}, &fakeExpirer{})

	err := gw.Do(context.Background(), http.MethodGet, "/companies", nil, nil)
	require.Error(t, err)
	var ge *domain.GatewayError
	require.False(t, errors.As(err, &ge))
}

// A company created through the service is visible in the next list.
func TestCompanyRoundTrip(t *testing.T) {
	var (
		mu        sync.Mutex
		companies []domain.Company
	)
	_, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			var c domain.Company
			if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			c.ID = int64(len(companies) + 1)
			companies = append(companies, c)
			_ = json.NewEncoder(w).Encode(c)
		default:
			_ = json.NewEncoder(w).Encode(companies)
		}
	})
	creds := &fakeCreds{}
	creds.set(domain.NewBasicCredential("admin", "admin"))
	gw := newTestGateway(srv, creds, &fakeExpirer{})
	svc := service.NewCompanyService(gw, validation.New(), zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.CompanyInput{Name: "Acme", Address: "Main St 1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Acme", list[0].Name)
}

func TestGateway_EachCallUsesItsOwnSession(t *testing.T) {
	aliceHeader := domain.NewBasicCredential("alice", "pw").Header()
	bobHeader := domain.NewBasicCredential("bob", "pw").Header()
	var revoked sync.Map

	fb, srv := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if _, gone := revoked.Load(auth); gone || (auth != aliceHeader && auth != bobHeader) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/auth/me" {
			name := "alice"
			if auth == bobHeader {
				name = "bob"
			}
			_, _ = w.Write([]byte(`{"username":"` + name + `","userType":"EMPLOYEE"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	client := NewClient(Config{BaseURL: srv.URL})
	reg := session.NewRegistry(NewAuthClient(client, zerolog.Nop()), zerolog.Nop(), 0)
	gw := NewGateway(client, session.ContextLocator{}, zerolog.Nop())

	_, aliceGate := reg.Open()
	_, bobGate := reg.Open()
	_, err := aliceGate.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	_, err = bobGate.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)

	aliceCtx := session.WithGate(context.Background(), aliceGate)
	bobCtx := session.WithGate(context.Background(), bobGate)

	require.NoError(t, gw.Do(aliceCtx, http.MethodGet, "/companies", nil, nil))
	require.Equal(t, aliceHeader, fb.last(t).auth)
	require.NoError(t, gw.Do(bobCtx, http.MethodGet, "/companies", nil, nil))
	require.Equal(t, bobHeader, fb.last(t).auth)

	err = gw.Do(context.Background(), http.MethodGet, "/companies", nil, nil)
	require.True(t, domain.IsUnauthorized(err))
	require.Empty(t, fb.last(t).auth, "a call without a session must not carry a credential")
	require.True(t, aliceGate.Session().Authenticated())
	require.True(t, bobGate.Session().Authenticated())

	revoked.Store(bobHeader, true)
	err = gw.Do(bobCtx, http.MethodGet, "/companies", nil, nil)
	require.True(t, domain.IsUnauthorized(err))
	require.False(t, bobGate.Session().Authenticated())
	require.True(t, aliceGate.Session().Authenticated(), "a 401 for bob must not end alice's session")
}
