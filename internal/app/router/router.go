package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	authhandler "facecounter_backend/internal/feature/auth/transport/handler"
	interviewhandler "facecounter_backend/internal/feature/interview/transport/handler"
	"facecounter_backend/internal/platform/http/handler"
	"facecounter_backend/internal/platform/http/middleware"
	"facecounter_backend/internal/platform/session"
)

// Deps carries everything NewRouter wires. Interview may be nil when Gemini is disabled.
type Deps struct {
	Logger          *slog.Logger
	FrontendOrigins []string
	CookieName      string

	Health    *handler.Health
	Auth      *authhandler.AuthHandler
	Interview *interviewhandler.InterviewHandler
	Sessions  session.Resolver

	AuthLimiter *limiter.Limiter
	AILimiter   *limiter.Limiter
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger))

	// Cookieを使うためAllowCredentialsが必要（ワイルドカードOriginは不可）
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.FrontendOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 導通確認用
	r.GET("/healthz", d.Health.Handle)
	r.HEAD("/healthz", d.Health.Handle)
	r.OPTIONS("/healthz", d.Health.Handle)

	// 認証不要（レート制限あり）
	var authLimit gin.HandlerFunc = passthrough
	if d.AuthLimiter != nil {
		authLimit = middleware.RateLimit(d.AuthLimiter, middleware.ByClientIP)
	}
	api := r.Group("/api")
	{
		api.POST("/auth/signup", authLimit, d.Auth.Signup)
		api.POST("/auth/login", authLimit, d.Auth.Login)
		api.GET("/auth/me", d.Auth.Me)
		api.POST("/auth/logout", d.Auth.Logout)
		api.GET("/auth/google/url", authLimit, d.Auth.GoogleURL)
		api.POST("/user/profile", d.Auth.UpdateProfile)
	}

	// Google OAuthのリダイレクト先（末尾スラッシュ付きも受け付ける）
	r.GET("/auth/google/callback", d.Auth.GoogleCallback)
	r.GET("/auth/google/callback/", d.Auth.GoogleCallback)

	// 認証必須のルート（Geminiが有効な場合のみ）
	if d.Interview != nil {
		var aiLimit gin.HandlerFunc = passthrough
		if d.AILimiter != nil {
			aiLimit = middleware.RateLimit(d.AILimiter, middleware.ByContextValue(session.ContextUserID))
		}
		interview := api.Group("/interview")
		interview.Use(session.Required(d.Sessions, d.CookieName), aiLimit)
		{
			interview.POST("/reply", d.Interview.Reply)
			interview.POST("/feedback", d.Interview.Feedback)
		}
	}

	return r
}

func passthrough(c *gin.Context) { c.Next() }
