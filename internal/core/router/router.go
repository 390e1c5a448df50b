package router

import (
	"context"
	"fmt"

	"github.com/99minutos/logistics-console/internal/core/domain"
)

// ViewHandler fetches the data of one screen for id.
type ViewHandler func(ctx context.Context, id domain.Identity) (Page, error)

// Router maps views to their handlers and enforces the role menu.
type Router struct {
	handlers map[ViewID]ViewHandler
}

func New(handlers map[ViewID]ViewHandler) *Router {
	return &Router{handlers: handlers}
}

// Dispatch opens view for id. The menu is rebuilt on every call so a role
// change takes effect immediately.
func (r *Router) Dispatch(ctx context.Context, id domain.Identity, view ViewID) (Page, error) {
	if id == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !Allowed(id, view) {
		return nil, fmt.Errorf("%w: %s", domain.ErrViewNotAllowed, view)
	}
	h, ok := r.handlers[view]
	if !ok {
		return nil, fmt.Errorf("no handler registered for view %q", view)
	}
	return h(ctx, id)
}
