package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"facecounter_backend/internal/feature/auth/transport/http/dto"
	"facecounter_backend/internal/feature/auth/usecase"
)

const msgOAuthNotConfigured = "Google Client ID not configured. Please set GOOGLE_CLIENT_ID in Environment Variables."

// callbackPage はポップアップのサインイン完了を親ウィンドウに通知し、自身を閉じます。
const callbackPage = `<!DOCTYPE html>
<html>
  <body>
    <script>
      if (window.opener) {
        window.opener.postMessage({ type: 'OAUTH_AUTH_SUCCESS' }, '*');
        window.close();
      } else {
        window.location.href = '/';
      }
    </script>
    <p>Authentication successful. This window should close automatically.</p>
  </body>
</html>
`

// GoogleURL はサインイン用ポップアップの同意画面URLを返します。
// stateに含まれるnonceを短命のCookieに保存し、コールバックで同じブラウザか照合します。
func (h *AuthHandler) GoogleURL(c *gin.Context) {
	state, nonce, err := h.state.Issue()
	if err != nil {
		slog.Error("failed to issue oauth state", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
		return
	}

	url, err := h.auth.GoogleAuthURL(state)
	if err != nil {
		if errors.Is(err, usecase.ErrOAuthNotConfigured) {
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgOAuthNotConfigured})
			return
		}
		slog.Error("failed to build google auth url", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
		return
	}
	h.cookie.setState(c, nonce)
	c.JSON(http.StatusOK, dto.URLRes{URL: url})
}

// GoogleCallback はポップアップのOAuthフローを完了します。
// ポップアップがそのまま表示するため、エラーはプレーンテキストで返します。
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "No code provided")
		return
	}
	nonce := h.cookie.stateNonce(c)
	// stateは一度きり
	h.cookie.clearState(c)
	if err := h.state.Verify(c.Query("state"), nonce); err != nil {
		slog.Warn("oauth callback with invalid state", "remote_addr", c.ClientIP())
		c.String(http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	res, err := h.auth.GoogleCallback(c.Request.Context(), code, h.cookie.token(c), sessionMeta(c))
	if err != nil {
		slog.Error("google oauth failed", "error", err, "remote_addr", c.ClientIP())
		c.String(http.StatusInternalServerError, "Authentication failed: "+callbackFailure(err))
		return
	}

	h.cookie.set(c, res.SessionToken)
	slog.Info("google sign-in successful", "user_id", res.User.ID, "created", res.Created)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(callbackPage))
}

// callbackFailure はエラーを表示可能なメッセージに絞ります。プロバイダーの詳細はログにのみ残します。
func callbackFailure(err error) string {
	for _, known := range []error{
		usecase.ErrOAuthExchangeFailed,
		usecase.ErrOAuthProfileFetchFailed,
		usecase.ErrOAuthNotConfigured,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal error"
}
