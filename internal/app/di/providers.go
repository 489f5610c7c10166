package di

import (
	"context"
	"log/slog"
	"time"

	"facecounter_backend/internal/app/config"
	"facecounter_backend/internal/feature/auth/adapters/google"
	"facecounter_backend/internal/feature/auth/usecase"
	"facecounter_backend/internal/feature/interview/adapters/gemini"
	infrahttp "facecounter_backend/internal/platform/http"
)

// outboundTimeout bounds calls to Google and Gemini.
const outboundTimeout = 30 * time.Second

// NewIdentityProvider returns the Google provider, or nil when GOOGLE_CLIENT_ID is unset.
// A nil provider makes the OAuth endpoints answer with ErrOAuthNotConfigured.
func NewIdentityProvider(cfg *config.Config) usecase.IdentityProvider {
	p, err := google.NewProvider(google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL(),
		HTTPClient:   infrahttp.NewHTTPClient(outboundTimeout),
	})
	if err != nil {
		slog.Warn("Google sign-in disabled", "error", err)
		return nil
	}
	return p
}

// NewCoachModel returns the Gemini client, or nil when it cannot be created.
func NewCoachModel(ctx context.Context, cfg *config.Config) *gemini.Coach {
	coach, err := gemini.NewCoach(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		HTTPClient: infrahttp.NewHTTPClient(2 * outboundTimeout),
	})
	if err != nil {
		slog.Warn("interview coach disabled", "error", err)
		return nil
	}
	return coach
}
