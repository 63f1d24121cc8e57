package navigation

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"pknews/client/internal/authsession/domain"
)

// Session is what the authenticated stack knows about the login. Held in memory only.
type Session struct {
	Method          string
	PhoneNumber     string
	Credential      *domain.Credential
	AuthenticatedAt time.Time
}

// Router tracks the current route and a back stack. Safe for concurrent use.
type Router struct {
	logger *slog.Logger

	mu      sync.Mutex
	current Route
	history []Route
	session *Session

	done     chan struct{}
	doneOnce sync.Once
}

// NewRouter returns a Router on the login screen.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		logger:  logger,
		current: RouteLogin,
		done:    make(chan struct{}),
	}
}

// Current returns the active route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns the back stack, oldest first.
func (r *Router) History() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.history)
}

// Push moves to route and keeps the current one on the back stack.
func (r *Router) Push(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, r.current)
	r.current = route
}

// Replace moves to route without recording the current one, so Back can never return to it.
func (r *Router) Replace(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
}

// Back pops the back stack. It reports false when there is nothing to go back to.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return false
	}
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	return true
}

// Authenticated replaces the login screen with the tab stack and records the session. Done is
// closed on the first event; later events only refresh the session.
func (r *Router) Authenticated(ctx context.Context, ev domain.AuthenticatedEvent) {
	r.mu.Lock()
	first := r.session == nil
	r.session = &Session{
		Method:          ev.Method,
		PhoneNumber:     ev.PhoneNumber,
		Credential:      ev.Credential,
		AuthenticatedAt: ev.OccurredAt,
	}
	r.history = nil
	r.current = RouteTabs
	r.mu.Unlock()

	if first {
		r.logger.Info("navigation: entered tab stack", "method", ev.Method, "event_id", ev.ID)
	} else {
		r.logger.Debug("navigation: session refreshed", "method", ev.Method, "event_id", ev.ID)
	}
	r.doneOnce.Do(func() { close(r.done) })
}

// Session returns the authenticated session, if any.
func (r *Router) Session() (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return Session{}, false
	}
	return *r.session, true
}

// Done is closed once the user reaches the tab stack.
func (r *Router) Done() <-chan struct{} { return r.done }
