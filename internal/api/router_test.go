package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/api/middleware"
	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/service"
	"github.com/99minutos/logistics-console/internal/core/session"
	"github.com/99minutos/logistics-console/internal/infrastructure/backend"
	"github.com/99minutos/logistics-console/internal/pkg/validation"
)

// ---------------------------------------------------------------------------
// Fake logistics backend
// ---------------------------------------------------------------------------

type fakeBackend struct {
	mu        sync.Mutex
	users     map[string]string // "Basic ..." header → /auth/me body
	companies []domain.Company
	authSeen  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{users: map[string]string{
		domain.NewBasicCredential("ivan", "pw").Header(): `{"username":"ivan","userType":"EMPLOYEE","employee":{"id":2,"name":"Ivan"}}`,
		domain.NewBasicCredential("ana", "pw").Header():  `{"username":"ana","userType":"CLIENT","client":{"id":4,"name":"Ana"}}`,
	}}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	auth := r.Header.Get("Authorization")
	b.authSeen = append(b.authSeen, auth)
	me, ok := b.users[auth]
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/api/auth/me":
		_, _ = io.WriteString(w, me)
	case r.URL.Path == "/api/companies" && r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(b.companies)
	case r.URL.Path == "/api/companies" && r.Method == http.MethodPost:
		var c domain.Company
		_ = json.NewDecoder(r.Body).Decode(&c)
		c.ID = int64(len(b.companies) + 1)
		b.companies = append(b.companies, c)
		_ = json.NewEncoder(w).Encode(c)
	case strings.HasPrefix(r.URL.Path, "/api/shipments/client/"):
		_, _ = io.WriteString(w, `[]`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (b *fakeBackend) lastAuth() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.authSeen) == 0 {
		return ""
	}
	return b.authSeen[len(b.authSeen)-1]
}

// ---------------------------------------------------------------------------
// Console wired to the fake backend
// ---------------------------------------------------------------------------

type console struct {
	srv      *httptest.Server
	backend  *fakeBackend
	sessions *session.Registry
}

func newConsole(t *testing.T) *console {
	t.Helper()
	fb := newFakeBackend()
	backendSrv := httptest.NewServer(fb)
	t.Cleanup(backendSrv.Close)

	log := zerolog.Nop()
	client := backend.NewClient(backend.Config{BaseURL: backendSrv.URL, Timeout: 5 * time.Second})
	authClient := backend.NewAuthClient(client, log)
	reg := session.NewRegistry(authClient, log, time.Hour)
	gw := backend.NewGateway(client, session.ContextLocator{}, log)
	v := validation.New()

	e, err := NewRouter(Deps{
		Accounts:   reg,
		Sessions:   middleware.NewSessions("test-secret", time.Hour, false, reg),
		Backend:    authClient,
		Companies:  service.NewCompanyService(gw, v, log),
		Clients:    service.NewClientService(gw, v, log),
		Employees:  service.NewEmployeeService(gw, v, log),
		Offices:    service.NewOfficeService(gw, v, log),
		Shipments:  service.NewShipmentService(gw, v, log),
		Reports:    service.NewReportService(gw, log),
		Logger:     log,
		Registerer: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &console{srv: srv, backend: fb, sessions: reg}
}

// browser is an HTTP client with its own cookie jar that does not follow
// redirects.
type browser struct {
	t    *testing.T
	base string
	http *http.Client
}

func (c *console) browser(t *testing.T) *browser {
	jar, _ := cookiejar.New(nil)
	return &browser{t: t, base: c.srv.URL, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

var csrfField = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func (b *browser) get(path string) (int, string, string) {
	b.t.Helper()
	resp, err := b.http.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

// post submits form from the page at formPage, carrying its CSRF token.
func (b *browser) post(formPage, path string, form url.Values) (int, string, string) {
	b.t.Helper()
	_, _, page := b.get(formPage)
	m := csrfField.FindStringSubmatch(page)
	if m == nil {
		b.t.Fatalf("no CSRF token on %s", formPage)
	}
	form.Set("_csrf", m[1])

	resp, err := b.http.PostForm(b.base+path, form)
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}

func (b *browser) login(user, pass string) {
	b.t.Helper()
	code, loc, body := b.post("/login", "/login", url.Values{"username": {user}, "password": {pass}})
	if code != http.StatusSeeOther || loc != "/" {
		b.t.Fatalf("login %s: %d %s %s", user, code, loc, body)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_Health(t *testing.T) {
	c := newConsole(t)
	code, _, body := c.browser(t).get("/health")
	if code != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("unexpected /health %d %s", code, body)
	}
	code, _, _ = c.browser(t).get("/health/ready")
	if code != http.StatusOK {
		t.Fatalf("expected ready, got %d", code)
	}
}

func TestRouter_AnonymousRedirectedToLogin(t *testing.T) {
	c := newConsole(t)
	code, loc, _ := c.browser(t).get("/views/companies")
	if code != http.StatusSeeOther || loc != "/login" {
		t.Fatalf("expected redirect to /login, got %d %s", code, loc)
	}
}

func TestRouter_PostWithoutCSRFRejected(t *testing.T) {
	c := newConsole(t)
	b := c.browser(t)
	resp, err := b.http.PostForm(b.base+"/login", url.Values{"username": {"ivan"}, "password": {"pw"}})
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected CSRF rejection, got %d", resp.StatusCode)
	}
	if c.sessions.Len() != 0 {
		t.Fatal("login without CSRF token went through")
	}
}

func TestRouter_InvalidLoginShowsMessage(t *testing.T) {
	c := newConsole(t)
	code, _, body := c.browser(t).post("/login", "/login", url.Values{"username": {"ivan"}, "password": {"nope"}})
	if code != http.StatusUnauthorized || !strings.Contains(body, "invalid username or password") {
		t.Fatalf("unexpected response %d", code)
	}
	if strings.Contains(body, "nope") {
		t.Error("password echoed back into the page")
	}
}

func TestRouter_EmployeeCreatesAndListsCompany(t *testing.T) {
	c := newConsole(t)
	b := c.browser(t)
	b.login("ivan", "pw")

	code, loc, _ := b.get("/")
	if code != http.StatusSeeOther || loc != "/views/companies" {
		t.Fatalf("home: %d %s", code, loc)
	}

	code, loc, body := b.post("/companies/new", "/companies", url.Values{"name": {"Acme"}, "address": {"Main St 1"}})
	if code != http.StatusSeeOther || loc != "/views/companies?msg=saved" {
		t.Fatalf("create: %d %s %s", code, loc, body)
	}

	code, _, body = b.get("/views/companies")
	if code != http.StatusOK {
		t.Fatalf("list: %d", code)
	}
	if !strings.Contains(body, "Acme") {
		t.Error("created company missing from the list")
	}

	_, _, body = b.get(loc)
	if !strings.Contains(body, "Saved.") {
		t.Error("flash message not shown after redirect")
	}
}

func TestRouter_CompanyValidationInline(t *testing.T) {
	c := newConsole(t)
	b := c.browser(t)
	b.login("ivan", "pw")

	code, _, body := b.post("/companies/new", "/companies", url.Values{"address": {"Main St 1"}})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if !strings.Contains(body, "name is required") || !strings.Contains(body, `value="Main St 1"`) {
		t.Error("form not re-rendered with the error and the submitted values")
	}
}

func TestRouter_ClientCannotOpenEmployeeScreens(t *testing.T) {
	c := newConsole(t)
	b := c.browser(t)
	b.login("ana", "pw")

	if code, loc, _ := b.get("/"); loc != "/views/my-shipments" {
		t.Fatalf("client home: %d %s", code, loc)
	}
	if code, _, _ := b.get("/views/my-shipments"); code != http.StatusOK {
		t.Fatalf("my shipments: %d", code)
	}
	if code, _, _ := b.get("/views/companies"); code != http.StatusForbidden {
		t.Fatalf("expected 403 for a client on companies, got %d", code)
	}
	if code, _, _ := b.get("/companies/new"); code != http.StatusForbidden {
		t.Fatalf("expected 403 for a client on a company form, got %d", code)
	}
}

func TestRouter_LogoutDropsCredential(t *testing.T) {
	c := newConsole(t)
	b := c.browser(t)
	b.login("ivan", "pw")

	code, loc, _ := b.post("/views/companies", "/logout", url.Values{})
	if code != http.StatusSeeOther || !strings.HasPrefix(loc, "/login") {
		t.Fatalf("logout: %d %s", code, loc)
	}
	if c.sessions.Len() != 0 {
		t.Fatal("session still open after logout")
	}
	if code, loc, _ := b.get("/views/companies"); code != http.StatusSeeOther || loc != "/login" {
		t.Fatalf("expected redirect after logout, got %d %s", code, loc)
	}
}

func TestRouter_BrowsersStayIndependent(t *testing.T) {
	c := newConsole(t)
	ivan := c.browser(t)
	ivan.login("ivan", "pw")

	// A stranger's failed attempt must not touch ivan's session.
	code, _, _ := c.browser(t).post("/login", "/login", url.Values{"username": {"ivan"}, "password": {"nope"}})
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for the wrong password, got %d", code)
	}
	if code, loc, _ := ivan.get("/views/companies"); code != http.StatusOK {
		t.Fatalf("failed login elsewhere ended ivan's session: %d %s", code, loc)
	}

	ana := c.browser(t)
	ana.login("ana", "pw")
	if c.sessions.Len() != 2 {
		t.Fatalf("expected two sessions, got %d", c.sessions.Len())
	}

	if code, _, _ := ivan.get("/views/companies"); code != http.StatusOK {
		t.Fatalf("ana's login ended ivan's session: %d", code)
	}
	if auth := c.backend.lastAuth(); auth != domain.NewBasicCredential("ivan", "pw").Header() {
		t.Fatal("ivan's request went out with another credential")
	}
	if code, _, _ := ana.get("/views/my-shipments"); code != http.StatusOK {
		t.Fatalf("ana lost her session: %d", code)
	}
	if auth := c.backend.lastAuth(); auth != domain.NewBasicCredential("ana", "pw").Header() {
		t.Fatal("ana's request went out with another credential")
	}
}

func TestRouter_LogoutOnlyEndsOwnBrowser(t *testing.T) {
	c := newConsole(t)
	ivan := c.browser(t)
	ivan.login("ivan", "pw")
	ana := c.browser(t)
	ana.login("ana", "pw")

	if code, _, _ := ana.post("/views/my-shipments", "/logout", url.Values{}); code != http.StatusSeeOther {
		t.Fatalf("logout: %d", code)
	}
	if code, loc, _ := ana.get("/views/my-shipments"); code != http.StatusSeeOther || loc != "/login" {
		t.Fatalf("ana still logged in: %d %s", code, loc)
	}
	if code, _, _ := ivan.get("/views/companies"); code != http.StatusOK {
		t.Fatalf("ana's logout ended ivan's session: %d", code)
	}
}

func TestRouter_NewLoginReplacesOwnSession(t *testing.T) {
	c := newConsole(t)
	b := c.browser(t)
	b.login("ivan", "pw")
	b.login("ana", "pw")

	if c.sessions.Len() != 1 {
		t.Fatalf("expected the earlier session to be closed, got %d", c.sessions.Len())
	}
	if _, loc, _ := b.get("/"); loc != "/views/my-shipments" {
		t.Fatalf("browser is not logged in as ana: %s", loc)
	}
}

func TestRouter_BackendRejectionExpiresSession(t *testing.T) {
	c := newConsole(t)
	b := c.browser(t)
	b.login("ivan", "pw")

	// The backend revokes the account.
	c.backend.mu.Lock()
	delete(c.backend.users, domain.NewBasicCredential("ivan", "pw").Header())
	c.backend.mu.Unlock()

	code, loc, _ := b.get("/views/companies")
	if code != http.StatusSeeOther || loc != "/login?msg=expired" {
		t.Fatalf("expected redirect to login, got %d %s", code, loc)
	}
	if auth := c.backend.lastAuth(); auth == "" {
		t.Fatal("expected the rejected request to carry the credential")
	}
	if code, loc, _ := b.get("/views/companies"); code != http.StatusSeeOther || loc != "/login" {
		t.Fatalf("401 did not end the session: %d %s", code, loc)
	}
	if c.sessions.Len() != 0 {
		t.Fatal("expired session left open")
	}
}
