// Package redis stores user sessions in Redis with a TTL, letting the server
// drop expired sessions without a purge job.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	userports "github.com/Fedi-Riahi/mar/internal/domains/users/ports"
)

// Session keys are namespaced per user: sessions:{user_id} -> token.
const sessionKeyFormat = "sessions:%s"

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// SessionStore persists user sessions in Redis.
type SessionStore struct {
	client   *redis.Client
	sessionT time.Duration
}

// NewSessionStore wires a Redis-backed session store. Caller owns client lifecycle.
func NewSessionStore(client *redis.Client, sessionTTL time.Duration) *SessionStore {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &SessionStore{client: client, sessionT: sessionTTL}
}

// Save stores a session token keyed by user id, replacing any previous one.
func (s *SessionStore) Save(ctx context.Context, userID, token string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if userID == "" || token == "" {
		return errors.New("user id and token are required")
	}
	return s.client.Set(ctx, fmt.Sprintf(sessionKeyFormat, userID), token, s.sessionT).Err()
}

// Delete removes the session of a user.
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}
	return s.client.Del(ctx, fmt.Sprintf(sessionKeyFormat, userID)).Err()
}

func (s *SessionStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis session store not configured")
	}
	return nil
}

var _ userports.SessionStore = (*SessionStore)(nil)
