// Package session persists the bearer credential and the identity derived
// from it. Absence of a token is an expected state, never an error.
package session

import (
	"sync"

	"github.com/marcuslira2/task-manager-front/internal/models"
)

// Store holds one user session. Save overwrites any prior value; Clear
// removes token and identity together, so a reader never observes a
// half-cleared session.
type Store interface {
	Save(token string, identity *models.Identity) error
	Token() (string, bool)
	Identity() (*models.Identity, bool)
	Clear() error
}

// MemoryStore keeps the session in memory only. Used by tests and by
// one-shot invocations that must not touch the session file.
type MemoryStore struct {
	mu       sync.RWMutex
	token    string
	identity *models.Identity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.identity = identity
	return nil
}

func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Identity() (*models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil, false
	}
	id := *s.identity
	return &id, true
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = nil
	return nil
}
