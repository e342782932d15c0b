package signup

import (
	"sync"
	"time"
)

// Factory builds the machine for a new session.
type Factory func(sessionID string) *Machine

// Registry keeps one machine per browser session.
type Registry struct {
	factory Factory
	now     func() time.Time

	mu       sync.Mutex
	machines map[string]*Machine
}

// NewRegistry returns an empty registry.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory:  factory,
		now:      time.Now,
		machines: make(map[string]*Machine),
	}
}

// Get returns the session's machine, creating it on first use.
func (r *Registry) Get(sessionID string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.machines[sessionID]; ok {
		return m
	}
	m := r.factory(sessionID)
	r.machines[sessionID] = m
	return m
}

// Lookup returns the session's machine without creating one.
func (r *Registry) Lookup(sessionID string) (*Machine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.machines[sessionID]
	return m, ok
}

// Release drops the session's machine, e.g. after navigating away on success.
func (r *Registry) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.machines, sessionID)
}

// Sweep drops idle machines untouched for longer than ttl and returns how
// many were removed. Pending machines are never swept.
func (r *Registry) Sweep(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, m := range r.machines {
		if m.State() == StatePending || m.LastActivity().After(cutoff) {
			continue
		}
		delete(r.machines, id)
		removed++
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.machines)
}
