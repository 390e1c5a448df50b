// Package metrics defines and registers all custom Prometheus metrics for the
// logistics console. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed at /metrics by the console router.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

const namespace = "console"

// ── Backend gateway metrics ──────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the logistics backend.
// Labels:
//   - method: HTTP method (e.g. "GET")
//   - resource: first path segment (e.g. "companies", "shipments", "auth")
//   - status: HTTP status code, or "error" when no response was received
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the logistics backend.",
	},
	[]string{"method", "resource", "status"},
)

// BackendRequestDuration measures backend round trips.
// Labels:
//   - method: HTTP method
//   - resource: first path segment
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests to the logistics backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "resource"},
)

// StaleResponsesTotal counts responses discarded because the session changed
// while the request was in flight.
var StaleResponsesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_responses_total",
		Help:      "Total number of backend responses discarded after a session change.",
	},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state transitions.
// Label:
//   - state: the state entered ("unauthenticated", "authenticating", "authenticated")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by target state.",
	},
	[]string{"state"},
)

// LoginsTotal counts login attempts that reached the backend.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts verified against the backend.",
	},
	[]string{"result"},
)

// SessionObserver returns a listener that records session transitions and
// login outcomes. Register it with the session gate.
func SessionObserver() func(domain.Session) {
	var (
		mu   sync.Mutex
		prev = domain.StateUnauthenticated
	)
	return func(s domain.Session) {
		mu.Lock()
		defer mu.Unlock()

		SessionTransitionsTotal.WithLabelValues(s.State.String()).Inc()
		if prev == domain.StateAuthenticating {
			switch s.State {
			case domain.StateAuthenticated:
				LoginsTotal.WithLabelValues("success").Inc()
			case domain.StateUnauthenticated:
				LoginsTotal.WithLabelValues("failure").Inc()
			}
		}
		prev = s.State
	}
}
