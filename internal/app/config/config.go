// Package config resolves process configuration once at startup.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port            string
	AppURL          string
	FrontendOrigins []string

	SQLitePath  string
	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	SessionCookieName string
	SessionTTL        time.Duration
	CookieSecure      bool
	BcryptCost        int

	OAuthStateSecret   string
	GoogleClientID     string
	GoogleClientSecret string

	GeminiAPIKey string
	GeminiModel  string

	RateLimitAuth string
	RateLimitAI   string
	GeminiRPM     int
}

// StoreBackend reports which credential store DATABASE_URL selects.
func (c *Config) StoreBackend() string {
	if c.DatabaseURL != "" {
		return BackendPostgres
	}
	return BackendSQLite
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

// GoogleRedirectURL is the callback registered with Google.
func (c *Config) GoogleRedirectURL() string {
	return strings.TrimRight(c.AppURL, "/") + "/auth/google/callback"
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("FRONTEND_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("SQLITE_PATH", "facecounter.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("SESSION_COOKIE_NAME", "sid")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("OAUTH_STATE_SECRET", "")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("RATE_LIMIT_AUTH", "20-M")
	v.SetDefault("RATE_LIMIT_AI", "30-M")
	v.SetDefault("GEMINI_RPM", 60)
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		AppURL:             v.GetString("APP_URL"),
		FrontendOrigins:    splitList(v.GetString("FRONTEND_ORIGINS")),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RedisHost:          v.GetString("REDIS_HOST"),
		RedisPort:          v.GetString("REDIS_PORT"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		SessionCookieName:  v.GetString("SESSION_COOKIE_NAME"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		BcryptCost:         v.GetInt("BCRYPT_COST"),
		OAuthStateSecret:   v.GetString("OAUTH_STATE_SECRET"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiModel:        v.GetString("GEMINI_MODEL"),
		RateLimitAuth:      v.GetString("RATE_LIMIT_AUTH"),
		RateLimitAI:        v.GetString("RATE_LIMIT_AI"),
		GeminiRPM:          v.GetInt("GEMINI_RPM"),
	}

	ttlStr := v.GetString("SESSION_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour
		slog.Warn("invalid SESSION_TTL, using default", "value", ttlStr, "default", ttl)
	}
	cfg.SessionTTL = ttl

	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "sid"
	}

	if cfg.OAuthStateSecret == "" {
		// A per-process secret only works for a single instance.
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.OAuthStateSecret = secret
		slog.Warn("OAUTH_STATE_SECRET not set, using a per-process secret")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
