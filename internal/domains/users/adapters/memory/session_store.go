package memory

import (
	"context"
	"sync"
)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	session sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, userID, token string) error {
	s.session.Store(userID, token)
	return nil
}

func (s *SessionStore) Delete(_ context.Context, userID string) error {
	s.session.Delete(userID)
	return nil
}
