package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"facecounter_backend/internal/app/config"
	"facecounter_backend/internal/app/di"
	"facecounter_backend/internal/app/router"
	authhandler "facecounter_backend/internal/feature/auth/transport/handler"
	authusecase "facecounter_backend/internal/feature/auth/usecase"
	interviewhandler "facecounter_backend/internal/feature/interview/transport/handler"
	interviewusecase "facecounter_backend/internal/feature/interview/usecase"
	"facecounter_backend/internal/platform/http/handler"
	"facecounter_backend/internal/platform/http/middleware"
	"facecounter_backend/internal/platform/oauthstate"
	infraredis "facecounter_backend/internal/platform/redis"
	"facecounter_backend/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// db
	store, err := di.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	// Redis（任意）
	var rdb *redisv9.Client
	if addr := cfg.RedisAddr(); addr != "" {
		tmp, err := infraredis.NewRedisClient(ctx, infraredis.Options{Addr: addr, Password: cfg.RedisPassword})
		if err != nil {
			logger.Warn("Redis unavailable. Sessions fall back to the SQL store.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					logger.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Session
	sessions := authusecase.NewSessionStore(di.NewSessionRepository(rdb, store.SQL), cfg.SessionTTL)
	if n, err := sessions.PurgeExpired(ctx); err != nil {
		logger.Warn("failed to purge expired sessions", "error", err)
	} else if n > 0 {
		logger.Info("purged expired sessions", "count", n)
	}

	// Usecase
	opts := []authusecase.Option{authusecase.WithBcryptCost(cfg.BcryptCost)}
	if p := di.NewIdentityProvider(cfg); p != nil {
		opts = append(opts, authusecase.WithIdentityProvider(p))
	}
	authUC := authusecase.NewAuthUsecase(store.Users, sessions, opts...)

	signer, err := oauthstate.NewSigner(cfg.OAuthStateSecret, 0)
	if err != nil {
		return err
	}

	// Handler
	authH := authhandler.NewAuthHandler(authUC, signer, authhandler.CookieConfig{
		Name:   cfg.SessionCookieName,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	})

	var interviewH *interviewhandler.InterviewHandler
	if coach := di.NewCoachModel(ctx, cfg); coach != nil {
		throttle := ratelimiter.NewRateLimiter(cfg.GeminiRPM, time.Minute)
		interviewH = interviewhandler.NewInterviewHandler(interviewusecase.NewCoachUsecase(coach, store.Users, throttle))
	}

	// Rate limit
	limitStore, err := middleware.NewLimiterStore(rdb, "ratelimit")
	if err != nil {
		return err
	}
	authLimiter, err := middleware.NewLimiter(limitStore, cfg.RateLimitAuth)
	if err != nil {
		return err
	}
	aiLimiter, err := middleware.NewLimiter(limitStore, cfg.RateLimitAI)
	if err != nil {
		return err
	}

	checks := map[string]handler.Check{"db": store.HealthCheck()}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Logger:          logger,
		FrontendOrigins: cfg.FrontendOrigins,
		CookieName:      cfg.SessionCookieName,
		Health:          handler.NewHealth(checks),
		Auth:            authH,
		Interview:       interviewH,
		Sessions:        authUC,
		AuthLimiter:     authLimiter,
		AILimiter:       aiLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "store", store.Backend, "redis", rdb != nil, "interview", interviewH != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
