package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"facecounter_backend/internal/feature/auth/domain/entity"
)

const (
	// DefaultSessionTTL is the absolute lifetime of a session from issuance.
	DefaultSessionTTL = 24 * time.Hour

	// sessionTokenBytes is the amount of randomness in a token (hex encoded to 64 characters).
	sessionTokenBytes = 32
)

// SessionStore owns the token to user id mapping.
// Callers never look inside a token; they only create, resolve or destroy it.
type SessionStore struct {
	repo SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionStore creates a SessionStore. A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionStore(repo SessionRepository, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{repo: repo, ttl: ttl, now: time.Now}
}

// TTL returns the absolute session lifetime.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create issues a new token bound to userID.
func (s *SessionStore) Create(ctx context.Context, userID string, meta entity.SessionMeta) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	now := s.now()
	session := &entity.Session{
		ID:        token,
		UserID:    userID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id bound to token.
// Unknown, empty and expired tokens all yield ErrUnauthenticated; expired ones are removed.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}
	session, err := s.repo.FindByID(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return "", ErrUnauthenticated
		}
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}
	if session.IsExpired(s.now()) {
		_ = s.repo.Delete(ctx, token)
		return "", ErrUnauthenticated
	}
	return session.UserID, nil
}

// Destroy removes the binding for token. It is idempotent.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions that outlived their lifetime.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
