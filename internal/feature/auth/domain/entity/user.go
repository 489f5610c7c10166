// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// Accounts created through Google sign-in carry no password hash.
type User struct {
	// ID is the opaque identifier assigned by the store at creation.
	ID string

	// Email is unique across all users.
	Email string

	// PasswordHash is the bcrypt hash for password accounts, nil for OAuth-only accounts.
	// It must never leave the server.
	PasswordHash *string

	// Profile is nil until the user completes onboarding.
	Profile *Profile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Identity is the verified account information returned by an external identity provider.
type Identity struct {
	Email         string
	Name          string
	EmailVerified bool
}
