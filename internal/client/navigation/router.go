// Package navigation maps client paths to views and keeps unauthenticated
// users out of the dashboard.
package navigation

import (
	"sync"

	"github.com/dmitrijs2005/arch1v/internal/client/models"
)

const (
	PathAuth = "/auth"
	PathApp  = "/app"
)

// View is what the client shows for a path.
type View string

const (
	ViewAuth      View = "auth"
	ViewDashboard View = "dashboard"
)

// Session is the part of the session store the router depends on.
type Session interface {
	IsAuthenticated() bool
	Subscribe(fn func(models.Session)) (cancel func())
}

// Router keeps a browser-like history of paths. Every path it lands on
// passes the guard: unknown paths and /app without a session become /auth,
// replacing the offending entry.
type Router struct {
	session Session
	cancel  func()

	mu      sync.Mutex
	history []string
	pos     int

	subMu  sync.Mutex
	subs   map[int]func(View)
	nextID int
}

func NewRouter(s Session, initialPath string) *Router {
	r := &Router{
		session: s,
		subs:    make(map[int]func(View)),
	}
	r.history = []string{r.guard(initialPath)}
	r.cancel = s.Subscribe(func(models.Session) { r.enforce() })
	return r
}

// Close detaches the router from the session store.
func (r *Router) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Navigate pushes path onto the history, dropping any forward entries.
// Navigating to the current path does nothing.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	target := r.guard(path)
	if r.history[r.pos] == target {
		r.mu.Unlock()
		return
	}
	r.history = append(r.history[:r.pos+1], target)
	r.pos++
	r.mu.Unlock()

	r.notify()
}

// Replace swaps the current history entry for path.
func (r *Router) Replace(path string) {
	r.mu.Lock()
	target := r.guard(path)
	changed := r.history[r.pos] != target
	r.history[r.pos] = target
	r.mu.Unlock()

	if changed {
		r.notify()
	}
}

// Back moves one entry back. It reports false at the start of history.
func (r *Router) Back() bool {
	return r.step(-1)
}

// Forward moves one entry forward. It reports false at the end of history.
func (r *Router) Forward() bool {
	return r.step(1)
}

func (r *Router) step(delta int) bool {
	r.mu.Lock()
	next := r.pos + delta
	if next < 0 || next >= len(r.history) {
		r.mu.Unlock()
		return false
	}
	r.pos = next
	r.history[r.pos] = r.guard(r.history[r.pos])
	r.mu.Unlock()

	r.notify()
	return true
}

// Path returns the current path after applying the guard.
func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.guard(r.history[r.pos])
}

// View returns the view for the current path. The guard is evaluated on
// every call, so a lapsed session never shows the dashboard.
func (r *Router) View() View {
	return viewOf(r.Path())
}

// Subscribe registers fn to be called with the new view after every
// navigation.
func (r *Router) Subscribe(fn func(View)) (cancel func()) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	id := r.nextID
	r.nextID++
	r.subs[id] = fn

	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.subs, id)
	}
}

// enforce re-runs the guard on the current entry after a session change.
func (r *Router) enforce() {
	r.mu.Lock()
	cur := r.history[r.pos]
	target := r.guard(cur)
	r.history[r.pos] = target
	r.mu.Unlock()

	if cur != target {
		r.notify()
	}
}

func (r *Router) guard(path string) string {
	switch path {
	case PathAuth:
		return PathAuth
	case PathApp:
		if r.session.IsAuthenticated() {
			return PathApp
		}
		return PathAuth
	default:
		return PathAuth
	}
}

func viewOf(path string) View {
	if path == PathApp {
		return ViewDashboard
	}
	return ViewAuth
}

func (r *Router) notify() {
	r.subMu.Lock()
	fns := make([]func(View), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subMu.Unlock()

	v := r.View()
	for _, fn := range fns {
		fn(v)
	}
}
