package session

import (
	"context"

	"github.com/99minutos/logistics-console/internal/core/domain"
	"github.com/99minutos/logistics-console/internal/core/ports"
)

type gateKey struct{}

// WithGate returns a context whose backend calls run under g's session.
func WithGate(ctx context.Context, g *Gate) context.Context {
	return context.WithValue(ctx, gateKey{}, g)
}

// FromContext returns the gate bound by WithGate.
func FromContext(ctx context.Context) (*Gate, bool) {
	g, ok := ctx.Value(gateKey{}).(*Gate)
	return g, ok && g != nil
}

// ContextLocator implements ports.SessionLocator with the gate bound to the
// call's context. A context without a gate is anonymous: no credential is
// sent and nothing can expire.
type ContextLocator struct{}

func (ContextLocator) Locate(ctx context.Context) ports.LiveSession {
	if g, ok := FromContext(ctx); ok {
		return g
	}
	return anonymous{}
}

type anonymous struct{}

func (anonymous) Current() (domain.Credential, uint64) { return domain.Credential{}, 0 }
func (anonymous) Epoch() uint64                        { return 0 }
func (anonymous) Expire(uint64)                        {}
