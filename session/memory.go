package session

import (
	"context"
	"sync"

	"roomrental/models"
)

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	reader
	mu  sync.RWMutex
	rec *record
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reader = reader{load: s.load}
	return s
}

func (s *MemoryStore) load(context.Context) *record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec
}

func (s *MemoryStore) SaveSession(_ context.Context, token string, user models.UserProfile) error {
	rec := &record{Token: token, User: &user, IsLoggedIn: true}
	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.rec = nil
	s.mu.Unlock()
	return nil
}
