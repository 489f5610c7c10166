// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"facecounter_backend/internal/feature/auth/domain/entity"
	"facecounter_backend/internal/feature/auth/transport/http/dto"
	"facecounter_backend/internal/feature/auth/usecase"
)

// ブラウザに表示するエラーメッセージ
const (
	msgRequired           = "Email and password are required"
	msgEmailExists        = "Email already exists"
	msgInvalidCredentials = "Invalid email or password"
	msgNotLoggedIn        = "Not logged in"
	msgUnauthorized       = "Unauthorized"
	msgUserNotFound       = "User not found"
	msgInternal           = "Internal server error"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Signup(ctx context.Context, email, password, currentToken string, meta entity.SessionMeta) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password, currentToken string, meta entity.SessionMeta) (*usecase.AuthResult, error)
	CurrentUser(ctx context.Context, token string) (*entity.User, error)
	ResolveSession(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, token string, profile *entity.Profile) error
	GoogleAuthURL(state string) (string, error)
	GoogleCallback(ctx context.Context, code, currentToken string, meta entity.SessionMeta) (*usecase.AuthResult, error)
}

// StateSigner はOAuthのstateパラメータを発行・検証します。
// Issueが返すnonceはフローを開始したブラウザのCookieに保存し、Verifyで照合します。
type StateSigner interface {
	Issue() (state, nonce string, err error)
	Verify(state, nonce string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// パスワードやハッシュはレスポンスにもログにも含めません。
type AuthHandler struct {
	auth   AuthUsecase
	state  StateSigner
	cookie CookieConfig
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, state StateSigner, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, state: state, cookie: cookie}
}

func sessionMeta(c *gin.Context) entity.SessionMeta {
	return entity.SessionMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - 必須項目の欠落、メール重複時は400を返却
// - 成功時はセッションCookieを発行し200を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.CredentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgRequired})
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password, h.cookie.token(c), sessionMeta(c))
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgRequired})
		return
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		slog.Warn("signup rejected: duplicate email", "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgEmailExists})
		return
	default:
		slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
		return
	}

	h.cookie.set(c, res.SessionToken)
	slog.Info("user signup successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.SignupRes{Message: "User created", User: dto.NewUserRes(res.User)})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// ユーザー列挙攻撃を防止するため、存在しないユーザーとパスワード誤りは同じ401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.CredentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgInvalidCredentials})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, h.cookie.token(c), sessionMeta(c))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgInvalidCredentials})
			return
		}
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
		return
	}

	h.cookie.set(c, res.SessionToken)
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewAuthRes(res.User))
}

// Me はセッションCookieに紐づくユーザーとプロフィールを返します。
// - セッションが無効な場合は401、ユーザーが存在しない場合は404を返却
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), h.cookie.token(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.NewAuthRes(user))
	case errors.Is(err, usecase.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgNotLoggedIn})
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: msgUserNotFound})
	default:
		slog.Error("failed to load current user", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
	}
}

// Logout はセッションを破棄しCookieを削除します。
// セッションが無くてもストアが失敗しても、常に200を返します。
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), h.cookie.token(c)); err != nil {
		slog.Error("failed to destroy session", "error", err)
	}
	h.cookie.clear(c)
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Logged out"})
}

// UpdateProfile はセッションユーザーのプロフィールを丸ごと置き換えます。
// ボディの検証より先にセッションを確認するため、未ログインは常に401になります。
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	token := h.cookie.token(c)
	if _, err := h.auth.ResolveSession(c.Request.Context(), token); err != nil {
		if errors.Is(err, usecase.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgUnauthorized})
			return
		}
		slog.Error("failed to resolve session", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
		return
	}

	var req dto.ProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	err := h.auth.UpdateProfile(c.Request.Context(), token, req.Profile.ToEntity())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.MessageRes{Message: "Profile updated"})
	case errors.Is(err, usecase.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgUnauthorized})
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: msgUserNotFound})
	default:
		slog.Error("failed to update profile", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternal})
	}
}
