package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store holds live sessions.
type Store interface {
	// Create makes a new session in the identity-capture state.
	Create(requireIdentity bool) *Session
	// Lookup returns the session for an id.
	Lookup(id string) (*Session, error)
	// Delete removes a session.
	Delete(id string)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (s *memoryStore) Create(requireIdentity bool) *Session {
	sess := &Session{
		ID:         uuid.New().String(),
		AwaitingID: requireIdentity,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *memoryStore) Lookup(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *memoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
