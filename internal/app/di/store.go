// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"facecounter_backend/internal/app/config"
	authadapters "facecounter_backend/internal/feature/auth/adapters"
	"facecounter_backend/internal/feature/auth/usecase"
	"facecounter_backend/internal/platform/db"
	"facecounter_backend/internal/platform/http/handler"
)

// Store bundles the credential store chosen at startup.
type Store struct {
	Backend string
	Users   usecase.UserRepository
	// SQL is the gorm handle used for the sessions table when Redis is absent.
	SQL *gorm.DB

	pool *pgxpool.Pool
}

// OpenStore selects the backend once: Postgres when DATABASE_URL is set, embedded SQLite otherwise.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreBackend() {
	case config.BackendPostgres:
		pool, err := db.NewPgxPool(ctx, cfg.DatabaseURL, db.DefaultConnectTimeout)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		gdb, err := db.OpenGormPostgres(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		slog.Info("credential store ready", "backend", config.BackendPostgres)
		return &Store{
			Backend: config.BackendPostgres,
			Users:   authadapters.NewUserPostgres(pool),
			SQL:     gdb,
			pool:    pool,
		}, nil

	default:
		gdb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("credential store ready", "backend", config.BackendSQLite, "path", cfg.SQLitePath)
		return &Store{
			Backend: config.BackendSQLite,
			Users:   authadapters.NewUserSQLite(gdb),
			SQL:     gdb,
		}, nil
	}
}

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	sqlDB, err := s.SQL.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// HealthCheck exposes Ping to the health handler.
func (s *Store) HealthCheck() handler.Check {
	return s.Ping
}

// Close releases the store's connections.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		return nil
	}
	sqlDB, err := s.SQL.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
