package admin

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore maps opaque tokens to admin emails. Sessions live in
// process memory: a restart clears them, tokens never expire, and they
// do not survive multi-instance deployment.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]string)}
}

// Create issues a fresh token for the given admin email.
func (s *SessionStore) Create(email string) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.sessions[token] = email
	s.mu.Unlock()

	return token
}

// Lookup returns the email bound to a token.
func (s *SessionStore) Lookup(token string) (string, bool) {
	s.mu.RLock()
	email, ok := s.sessions[token]
	s.mu.RUnlock()

	return email, ok
}

// Revoke drops a token.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
