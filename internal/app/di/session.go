package di

import (
	authadapters "facecounter_backend/internal/feature/auth/adapters"
	"facecounter_backend/internal/feature/auth/usecase"
	"facecounter_backend/internal/platform/session"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the sessions table of the SQL store.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, session.DefaultKeyPrefix)
	}
	return authadapters.NewSessionGorm(db)
}
