package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/grammarflow/internal/session"
)

// Registry holds the practice sessions of API clients, keyed by a random
// ID. Sessions that are not touched for the TTL are evicted by Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	factory  func() *session.Controller
	now      func() time.Time
}

type entry struct {
	ctrl     *session.Controller
	lastUsed time.Time
}

// NewRegistry creates a registry whose sessions are built by factory.
func NewRegistry(factory func() *session.Controller, ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Create starts a new session and returns its ID.
func (r *Registry) Create() (string, *session.Controller) {
	id := uuid.NewString()
	ctrl := r.factory()

	r.mu.Lock()
	r.sessions[id] = &entry{ctrl: ctrl, lastUsed: r.now()}
	r.mu.Unlock()
	return id, ctrl
}

// Get returns the session with the given ID and marks it as used.
func (r *Registry) Get(id string) (*session.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.ctrl, true
}

// Delete removes a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if ok {
		e.ctrl.Restart()
		delete(r.sessions, id)
	}
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. A non-positive TTL disables eviction.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			e.ctrl.Restart()
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// RunJanitor calls Sweep every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Info("evicted idle sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}
