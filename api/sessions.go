package api

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/planner"
)

// =============================================================================
// SESSION REGISTRY
// =============================================================================

// SessionRegistry keeps planner sessions in memory, keyed by a random UUID.
// Sessions are not persisted; a client that wants to keep its plan stores the
// share token.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	now      func() time.Time
}

type sessionEntry struct {
	session  *planner.Session
	lastSeen time.Time
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

// Add stores s under a fresh id.
func (r *SessionRegistry) Add(s *planner.Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{session: s, lastSeen: r.now()}
	return id
}

// Get returns the session with id and marks it as recently used.
func (r *SessionRegistry) Get(id string) (*planner.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", generic.ErrSessionNotFound, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrSessionNotFound, id)
	}
	e.lastSeen = r.now()
	return e.session, nil
}

// Delete removes a session, reporting whether it existed.
func (r *SessionRegistry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs lists the live session ids in ascending order.
func (r *SessionRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were removed.
func (r *SessionRegistry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
