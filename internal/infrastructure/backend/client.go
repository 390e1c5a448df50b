// Package backend talks to the logistics REST backend over HTTP.
package backend

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	defaultTimeout = 10 * time.Second
	apiPrefix      = "/api"

	headerRequestID = "X-Request-ID"
)

// Config captures the settings for reaching the backend.
type Config struct {
	// BaseURL is the backend origin, e.g. http://localhost:8080. The /api
	// prefix is appended.
	BaseURL string
	Timeout time.Duration
}

// NewClient returns a resty client rooted at the backend's /api prefix.
//
// The client has no cookie jar: the backend opens a server-side session on
// the first Basic-authenticated call, and a remembered session cookie would
// keep authenticating requests after logout.
func NewClient(cfg Config) *resty.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")+apiPrefix).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetCookieJar(nil).
		SetHeader("Accept", "application/json")
}

func newRequestID() string {
	return uuid.NewString()
}

// resource returns the first path segment, used as a low-cardinality label.
func resource(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
