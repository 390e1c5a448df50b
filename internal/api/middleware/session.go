package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
	"github.com/99minutos/logistics-console/internal/core/session"
)

const (
	// CookieName is the browser session cookie.
	CookieName = "console_session"

	// ContextKeyIdentity holds the domain.Identity of an authenticated request.
	ContextKeyIdentity = "identity"
)

// SessionRegistry holds one console session per browser.
type SessionRegistry interface {
	Open() (string, *session.Gate)
	Lookup(id string) (*session.Gate, bool)
	Close(id string)
}

// sessionClaims carry the session id in "jti" plus the user and epoch the
// cookie was issued for.
type sessionClaims struct {
	Username string `json:"username"`
	UserType string `json:"user_type"`
	Epoch    uint64 `json:"epoch"`
	jwt.RegisteredClaims
}

// Sessions binds each browser to its own console session with a signed
// cookie. The cookie never carries the backend credential.
type Sessions struct {
	secret   []byte
	ttl      time.Duration
	secure   bool
	registry SessionRegistry
	now      func() time.Time
}

func NewSessions(secret string, ttl time.Duration, secure bool, registry SessionRegistry) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure, registry: registry, now: time.Now}
}

// Start opens a fresh session for a login attempt. The browser's previous
// session, if any, ends here.
func (s *Sessions) Start(c echo.Context) (string, ports.AuthService) {
	if prev, err := s.claims(c); err == nil {
		s.registry.Close(prev.ID)
	}
	return s.registry.Open()
}

// Issue writes the cookie for session id after a successful login.
func (s *Sessions) Issue(c echo.Context, id string) error {
	g, ok := s.registry.Lookup(id)
	if !ok {
		return domain.ErrNotAuthenticated
	}
	sess := g.Session()
	if !sess.Authenticated() {
		return domain.ErrNotAuthenticated
	}

	now := s.now()
	claims := sessionClaims{
		Username: sess.Identity.Name(),
		UserType: string(sess.Identity.Type()),
		Epoch:    sess.Epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}
	c.SetCookie(s.cookie(signed, now.Add(s.ttl)))
	return nil
}

// Discard drops a session whose login did not succeed.
func (s *Sessions) Discard(id string) {
	s.registry.Close(id)
}

// End logs the browser's session out and removes its cookie.
func (s *Sessions) End(c echo.Context) {
	if claims, err := s.claims(c); err == nil {
		s.registry.Close(claims.ID)
	}
	s.Clear(c)
}

// Clear removes the browser cookie.
func (s *Sessions) Clear(c echo.Context) {
	ck := s.cookie("", time.Unix(0, 0))
	ck.MaxAge = -1
	c.SetCookie(ck)
}

// Require lets a request through only when its cookie belongs to a live
// session: valid signature, not expired, same epoch and same user. The
// session's gate is bound to the request context so backend calls carry its
// credential. Anything else is sent to the login page.
func (s *Sessions) Require() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			g, sess, err := s.verify(c)
			if err != nil {
				s.Clear(c)
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			c.Set(ContextKeyIdentity, sess.Identity)
			req := c.Request()
			c.SetRequest(req.WithContext(session.WithGate(req.Context(), g)))
			return next(c)
		}
	}
}

var errSessionMismatch = errors.New("cookie does not match a live session")

func (s *Sessions) claims(c echo.Context) (*sessionClaims, error) {
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return nil, domain.ErrNotAuthenticated
	}

	var claims sessionClaims
	tkn, err := jwt.ParseWithClaims(ck.Value, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid || claims.ID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return &claims, nil
}

func (s *Sessions) verify(c echo.Context) (*session.Gate, domain.Session, error) {
	claims, err := s.claims(c)
	if err != nil {
		return nil, domain.Session{}, err
	}
	g, ok := s.registry.Lookup(claims.ID)
	if !ok {
		return nil, domain.Session{}, errSessionMismatch
	}

	live := g.Session()
	if !live.Authenticated() ||
		live.Epoch != claims.Epoch ||
		live.Identity.Name() != claims.Username ||
		string(live.Identity.Type()) != claims.UserType {
		s.registry.Close(claims.ID)
		return nil, domain.Session{}, errSessionMismatch
	}
	return g, live, nil
}

func (s *Sessions) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Identity returns the identity the session middleware stored on c.
func Identity(c echo.Context) domain.Identity {
	id, _ := c.Get(ContextKeyIdentity).(domain.Identity)
	return id
}
