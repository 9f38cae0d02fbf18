package cart

import "sync"

// Registry maps logged-in users to their cart sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[int]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int]*Session)}
}

// Get returns the user's session, creating it on first use.
func (r *Registry) Get(userID int) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		s = NewSession()
		r.sessions[userID] = s
	}
	return s
}

// Drop discards the user's session (logout).
func (r *Registry) Drop(userID int) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()
}

// Reset discards every session.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.sessions = make(map[int]*Session)
	r.mu.Unlock()
}
