// Package google implements the OAuth identity provider backed by Google accounts.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleendpoint "golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"facecounter_backend/internal/feature/auth/domain/entity"
	"facecounter_backend/internal/feature/auth/usecase"
)

// Scopes requested on the consent screen.
var Scopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// Config holds the OAuth client registration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint defaults to google.Endpoint.
	Endpoint oauth2.Endpoint
	// UserinfoEndpoint overrides the Google API base URL (tests only).
	UserinfoEndpoint string
	// HTTPClient is used for the token exchange and userinfo calls.
	HTTPClient *http.Client
}

// Provider exchanges authorization codes and fetches the account profile.
type Provider struct {
	oauth            *oauth2.Config
	userinfoEndpoint string
	httpClient       *http.Client
}

// Compile-time check to ensure Provider implements IdentityProvider.
var _ usecase.IdentityProvider = (*Provider)(nil)

// NewProvider returns usecase.ErrOAuthNotConfigured when the client id is empty.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, usecase.ErrOAuthNotConfigured
	}
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = googleendpoint.Endpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		userinfoEndpoint: cfg.UserinfoEndpoint,
		httpClient:       client,
	}, nil
}

// AuthCodeURL builds the consent page URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the authorization code for an access token.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", errors.New("authorization code is empty")
	}
	token, err := p.oauth.Exchange(p.withClient(ctx), code)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("token response has no access token")
	}
	return token.AccessToken, nil
}

// FetchIdentity calls the userinfo endpoint with the access token.
func (p *Provider) FetchIdentity(ctx context.Context, accessToken string) (*entity.Identity, error) {
	client := oauth2.NewClient(p.withClient(ctx), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if p.userinfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.userinfoEndpoint))
	}
	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}

	identity := &entity.Identity{Email: info.Email, Name: info.Name}
	if info.VerifiedEmail != nil {
		identity.EmailVerified = *info.VerifiedEmail
	}
	return identity, nil
}

func (p *Provider) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}
