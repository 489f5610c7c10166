package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"facecounter_backend/internal/feature/auth/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":401,"message":"invalid token"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"email":          "ada@example.com",
			"name":           "Ada Lovelace",
			"verified_email": true,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, srv *httptest.Server) *Provider {
	t.Helper()
	p, err := NewProvider(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/google/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserinfoEndpoint: srv.URL + "/",
		HTTPClient:       srv.Client(),
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_NotConfigured(t *testing.T) {
	p, err := NewProvider(Config{})

	assert.ErrorIs(t, err, usecase.ErrOAuthNotConfigured)
	assert.Nil(t, p)
}

func TestNewProvider_DefaultsToGoogleEndpoint(t *testing.T) {
	p, err := NewProvider(Config{ClientID: "id"})
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("s"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
}

func TestProvider_AuthCodeURL(t *testing.T) {
	p := newTestProvider(t, newTestServer(t))

	u, err := url.Parse(p.AuthCodeURL("state-xyz"))

	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://localhost:8080/auth/google/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")
}

func TestProvider_Exchange(t *testing.T) {
	p := newTestProvider(t, newTestServer(t))

	t.Run("success", func(t *testing.T) {
		token, err := p.Exchange(context.Background(), "good-code")

		require.NoError(t, err)
		assert.Equal(t, "access-123", token)
	})

	t.Run("rejected code", func(t *testing.T) {
		_, err := p.Exchange(context.Background(), "bad-code")

		assert.Error(t, err)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := p.Exchange(context.Background(), "")

		assert.Error(t, err)
	})
}

func TestProvider_FetchIdentity(t *testing.T) {
	p := newTestProvider(t, newTestServer(t))

	t.Run("success", func(t *testing.T) {
		identity, err := p.FetchIdentity(context.Background(), "access-123")

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", identity.Email)
		assert.Equal(t, "Ada Lovelace", identity.Name)
		assert.True(t, identity.EmailVerified)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := p.FetchIdentity(context.Background(), "expired")

		assert.Error(t, err)
	})
}
