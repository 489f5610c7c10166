package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"facecounter_backend/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash is compared against when no usable hash exists,
// so unknown emails and wrong passwords cost the same bcrypt work.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the credential store.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user and sets its ID.
	// It returns ErrEmailAlreadyExists if a user with the same email already exists.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail returns ErrUserNotFound if no user has the email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns ErrUserNotFound if no user has the id.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// UpdateProfile replaces the stored profile wholesale.
	// It returns ErrUserNotFound if no user has the id.
	UpdateProfile(ctx context.Context, id string, profile *entity.Profile) error
}

// IdentityProvider is the external OAuth authorization-code provider.
type IdentityProvider interface {
	// AuthCodeURL returns the consent page URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (string, error)

	// FetchIdentity returns the verified account behind an access token.
	FetchIdentity(ctx context.Context, accessToken string) (*entity.Identity, error)
}

// AuthResult is what a successful signup, login or OAuth callback hands back to the transport layer.
type AuthResult struct {
	User         *entity.User
	SessionToken string
	Created      bool
}

// authUsecase is the only component that mints or validates sessions.
type authUsecase struct {
	users      UserRepository
	sessions   *SessionStore
	provider   IdentityProvider
	bcryptCost int
}

// Option configures an authUsecase.
type Option func(*authUsecase)

// WithIdentityProvider enables the Google sign-in path.
func WithIdentityProvider(p IdentityProvider) Option {
	return func(u *authUsecase) { u.provider = p }
}

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(u *authUsecase) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			u.bcryptCost = cost
		}
	}
}

// NewAuthUsecase creates a new instance of authUsecase.
func NewAuthUsecase(users UserRepository, sessions *SessionStore, opts ...Option) *authUsecase {
	u := &authUsecase{
		users:      users,
		sessions:   sessions,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Signup registers a password account and binds a new session to it.
// currentToken, if any, is destroyed first.
func (u *authUsecase) Signup(ctx context.Context, email, password, currentToken string, meta entity.SessionMeta) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrValidation
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(hashed)
	user := &entity.User{Email: email, PasswordHash: &hash}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := u.bind(ctx, currentToken, user.ID, meta)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, SessionToken: token, Created: true}, nil
}

// Login verifies credentials and binds a new session.
// A bcrypt comparison always runs so a missing user is indistinguishable from a wrong password.
func (u *authUsecase) Login(ctx context.Context, email, password, currentToken string, meta entity.SessionMeta) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash := dummyPasswordHash
	if err == nil && user.HasPassword() {
		passwordHash = *user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || !user.HasPassword() || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.bind(ctx, currentToken, user.ID, meta)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, SessionToken: token}, nil
}

// CurrentUser returns the user bound to token.
func (u *authUsecase) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	userID, err := u.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return u.users.FindByID(ctx, userID)
}

// ResolveSession returns the user id bound to token.
func (u *authUsecase) ResolveSession(ctx context.Context, token string) (string, error) {
	return u.sessions.Resolve(ctx, token)
}

// Logout destroys the session binding. It always succeeds for unknown or empty tokens.
func (u *authUsecase) Logout(ctx context.Context, token string) error {
	return u.sessions.Destroy(ctx, token)
}

// UpdateProfile replaces the profile of the user bound to token.
func (u *authUsecase) UpdateProfile(ctx context.Context, token string, profile *entity.Profile) error {
	userID, err := u.sessions.Resolve(ctx, token)
	if err != nil {
		return err
	}
	return u.users.UpdateProfile(ctx, userID, profile)
}

// GoogleAuthURL returns the consent URL for the Google sign-in popup.
func (u *authUsecase) GoogleAuthURL(state string) (string, error) {
	if u.provider == nil {
		return "", ErrOAuthNotConfigured
	}
	return u.provider.AuthCodeURL(state), nil
}

// GoogleCallback completes the authorization-code flow: exchange, fetch identity, find-or-create, bind.
// Provider failures are not retried; the user has to start over.
func (u *authUsecase) GoogleCallback(ctx context.Context, code, currentToken string, meta entity.SessionMeta) (*AuthResult, error) {
	if u.provider == nil {
		return nil, ErrOAuthNotConfigured
	}

	accessToken, err := u.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}

	identity, err := u.provider.FetchIdentity(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthProfileFetchFailed, err)
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", ErrOAuthProfileFetchFailed)
	}
	// An unverified email must never bind to an existing account.
	if !identity.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified by provider", ErrOAuthProfileFetchFailed)
	}

	user, created, err := u.findOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	token, err := u.bind(ctx, currentToken, user.ID, meta)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, SessionToken: token, Created: created}, nil
}

// findOrCreate reuses the user with the identity's email or creates one without a password.
func (u *authUsecase) findOrCreate(ctx context.Context, identity *entity.Identity) (*entity.User, bool, error) {
	user, err := u.users.FindByEmail(ctx, identity.Email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	user = &entity.User{
		Email:   identity.Email,
		Profile: &entity.Profile{Name: identity.Name},
	}
	if err := u.users.Create(ctx, user); err != nil {
		if !errors.Is(err, ErrEmailAlreadyExists) {
			return nil, false, fmt.Errorf("failed to create user: %w", err)
		}
		// Lost a race with a concurrent callback for the same email.
		existing, findErr := u.users.FindByEmail(ctx, identity.Email)
		if findErr != nil {
			return nil, false, fmt.Errorf("failed to look up user: %w", findErr)
		}
		return existing, false, nil
	}
	return user, true, nil
}

// bind replaces whatever the browser held with a fresh session for userID.
func (u *authUsecase) bind(ctx context.Context, currentToken, userID string, meta entity.SessionMeta) (string, error) {
	if err := u.sessions.Destroy(ctx, currentToken); err != nil {
		return "", err
	}
	return u.sessions.Create(ctx, userID, meta)
}
