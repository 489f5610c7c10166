package adapters

import (
	"time"

	"facecounter_backend/internal/feature/auth/domain/entity"
)

// SessionModel mirrors the sessions table created by the goose migration, so the
// same model serves AutoMigrate on SQLite and the migrated Postgres schema.
type SessionModel struct {
	Token     string    `gorm:"column:id;primaryKey;size:64"`
	UserID    string    `gorm:"column:user_id;size:64;not null;index:idx_sessions_user_id"`
	UserAgent string    `gorm:"column:user_agent;size:512;not null;default:''"`
	IPAddress string    `gorm:"column:ip_address;size:45;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index:idx_sessions_expires_at"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

func newSessionModel(s *entity.Session) *SessionModel {
	return &SessionModel{
		Token:     s.ID,
		UserID:    s.UserID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (m *SessionModel) toEntity() *entity.Session {
	return &entity.Session{
		ID:        m.Token,
		UserID:    m.UserID,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}
