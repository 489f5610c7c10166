// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrValidation is returned when a required input is missing.
	ErrValidation = errors.New("email and password are required")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned for every login failure.
	// It deliberately does not say whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated is returned when no valid session is bound to the request.
	ErrUnauthenticated = errors.New("not logged in")

	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrOAuthNotConfigured is returned when Google sign-in has no client credentials.
	ErrOAuthNotConfigured = errors.New("google client id not configured")

	// ErrOAuthExchangeFailed is returned when the identity provider rejects the authorization code.
	ErrOAuthExchangeFailed = errors.New("failed to exchange authorization code")

	// ErrOAuthProfileFetchFailed is returned when the identity provider's user info cannot be fetched.
	ErrOAuthProfileFetchFailed = errors.New("failed to fetch identity provider profile")
)
