package entity

import "time"

// Session binds an opaque browser token to a user id for a fixed absolute lifetime.
type Session struct {
	ID        string    // Token value handed to the browser (64-character hex string)
	UserID    string    // Bound user id
	UserAgent string    // Client's User-Agent header
	IPAddress string    // Client's IP address
	CreatedAt time.Time // Issue time
	ExpiresAt time.Time // Absolute expiry, never extended
}

// IsExpired reports whether the session has reached its absolute expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionMeta carries request details recorded with a new session.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}
