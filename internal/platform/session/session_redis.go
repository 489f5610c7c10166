// Package session はRedisによるセッションリポジトリとHTTPのセッションガードを提供します。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"facecounter_backend/internal/feature/auth/domain/entity"
	"facecounter_backend/internal/feature/auth/usecase"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix は共有Redis上でセッションキーを区別するプレフィックスです。
const DefaultKeyPrefix = "session"

// record はセッションキーに保存するJSON値です。
type record struct {
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionRedis はRedisを使用したusecase.SessionRepositoryの実装です。
// キーのTTLをセッションの絶対有効期限に合わせるため、期限切れはRedisが削除します。
type SessionRedis struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// SessionRedisがSessionRepositoryを実装していることをコンパイル時に確認
var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis はSessionRedisの新しいインスタンスを生成します。
func NewSessionRedis(client redis.Cmdable, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &SessionRedis{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// sessionKey はセッションのRedisキーを返します。
func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// Create はセッションをRedisに保存します。
func (r *SessionRedis) Create(ctx context.Context, s *entity.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := json.Marshal(record{
		UserID:    s.UserID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return r.client.Set(ctx, r.sessionKey(s.ID), data, ttl).Err()
}

// FindByID はトークンでセッションを取得します。存在しない場合はErrSessionNotFoundを返します。
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &entity.Session{
		ID:        id,
		UserID:    rec.UserID,
		UserAgent: rec.UserAgent,
		IPAddress: rec.IPAddress,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// Delete はセッションを削除します。存在しないキーの削除はエラーになりません。
func (r *SessionRedis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.sessionKey(id)).Err()
}

// DeleteExpired は何もしません（期限切れはRedisのTTLで削除されます）。
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
