package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"facecounter_backend/internal/feature/auth/usecase"

	"github.com/gin-gonic/gin"
)

// ContextUserID はRequiredがgin.Contextに保存するユーザーIDのキーです。
const ContextUserID = "userID"

// Resolver はセッショントークンから紐づくユーザーIDを解決します。
type Resolver interface {
	ResolveSession(ctx context.Context, token string) (string, error)
}

// Required は有効なセッションCookieがないリクエストを401で拒否するGinミドルウェアを返します。
func Required(resolver Resolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			slog.Error("session lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID はRequiredが保存したユーザーIDを返します。
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
