// Package session holds the per-user bot sessions: the selected
// repository, working branch, pending commit message, and prefix
// override for each chat user.
package session

import (
	"sync"
	"time"
)

// Session is one user's working state. The zero value is a valid
// fresh session with nothing selected.
type Session struct {
	Repository     string    `yaml:"repository,omitempty" json:"repository,omitempty"`
	Branch         string    `yaml:"branch,omitempty" json:"branch,omitempty"`
	PendingMessage string    `yaml:"-" json:"-"`
	Prefix         string    `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	UpdatedAt      time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// HasRepository reports whether a repository has been selected.
func (s Session) HasRepository() bool {
	return s.Repository != ""
}

// entry pairs one user's session with its own lock, so updates for a
// user serialize against each other without contending with any other
// user's updates.
type entry struct {
	mu   sync.Mutex
	sess Session
}

// Store is the in-memory session store. It is thread-safe. The outer
// lock guards only the entry map; all session reads and writes happen
// under the owning user's entry lock.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
	}
}

func (s *Store) entryFor(userID string) *entry {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[userID]; ok {
		return e
	}
	e = &entry{}
	s.entries[userID] = e
	return e
}

// Get returns a copy of the user's session. Unknown users get a fresh
// zero-value session without one being allocated.
func (s *Store) Get(userID string) Session {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if !ok {
		return Session{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess
}

// Update applies fn to the user's session atomically with respect to
// every other update for the same user, stamps UpdatedAt, and returns
// the resulting copy. fn must not block on I/O.
func (s *Store) Update(userID string, fn func(*Session)) Session {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.sess)
	e.sess.UpdatedAt = time.Now().UTC()
	return e.sess
}

// ConsumePendingMessage atomically takes the pending commit message
// and resets the slot. An empty slot yields the fallback instead.
func (s *Store) ConsumePendingMessage(userID, fallback string) string {
	e := s.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	msg := e.sess.PendingMessage
	e.sess.PendingMessage = ""
	if msg == "" {
		return fallback
	}
	return msg
}

// Clear drops the user's session entirely. The next Get sees a fresh
// default.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a copy of every live session keyed by user ID.
func (s *Store) Snapshot() map[string]Session {
	s.mu.RLock()
	entries := make(map[string]*entry, len(s.entries))
	for id, e := range s.entries {
		entries[id] = e
	}
	s.mu.RUnlock()

	out := make(map[string]Session, len(entries))
	for id, e := range entries {
		e.mu.Lock()
		out[id] = e.sess
		e.mu.Unlock()
	}
	return out
}
