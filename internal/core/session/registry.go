package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
)

// Registry keeps one Gate per browser, keyed by an opaque session id. A login
// attempt only ever touches the gate of its own browser.
type Registry struct {
	api  ports.AuthAPI
	log  zerolog.Logger
	idle time.Duration
	now  func() time.Time

	mu        sync.Mutex
	sessions  map[string]*entry
	observers []func() func(domain.Session)
}

type entry struct {
	gate *Gate
	seen time.Time
}

// NewRegistry returns an empty registry. Sessions unused for longer than idle
// are logged out and dropped; idle <= 0 keeps them until Close.
func NewRegistry(api ports.AuthAPI, log zerolog.Logger, idle time.Duration) *Registry {
	return &Registry{
		api:      api,
		log:      log,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Observe registers a listener factory. Every gate opened afterwards gets its
// own listener from it.
func (r *Registry) Observe(newListener func() func(domain.Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, newListener)
}

// Open creates an Unauthenticated session and returns its id.
func (r *Registry) Open() (string, *Gate) {
	id := uuid.NewString()
	g := NewGate(NewStore(), r.api, r.log.With().Str("session_id", id[:8]).Logger())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	for _, newListener := range r.observers {
		g.OnChange(newListener())
	}
	r.sessions[id] = &entry{gate: g, seen: r.now()}
	return id, g
}

// Lookup returns the gate of session id and marks it as used.
func (r *Registry) Lookup(id string) (*Gate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if r.expiredLocked(e) {
		r.dropLocked(id, e)
		return nil, false
	}
	e.seen = r.now()
	return e.gate, true
}

// Close logs session id out and forgets it. Unknown ids are ignored.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		r.dropLocked(id, e)
	}
}

// CloseAll logs every session out.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.sessions {
		r.dropLocked(id, e)
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Register creates an account. Registration is anonymous and belongs to no
// session.
func (r *Registry) Register(ctx context.Context, in ports.RegisterInput) error {
	return register(ctx, r.api, r.log, in)
}

func (r *Registry) expiredLocked(e *entry) bool {
	return r.idle > 0 && r.now().Sub(e.seen) > r.idle
}

func (r *Registry) sweepLocked() {
	for id, e := range r.sessions {
		if r.expiredLocked(e) {
			r.dropLocked(id, e)
		}
	}
}

func (r *Registry) dropLocked(id string, e *entry) {
	delete(r.sessions, id)
	e.gate.Logout()
}
