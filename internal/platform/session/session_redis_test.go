package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"facecounter_backend/internal/feature/auth/domain/entity"
	"facecounter_backend/internal/feature/auth/usecase"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) (*SessionRedis, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewSessionRedis(rdb, "session")
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func testSession() *entity.Session {
	return &entity.Session{
		ID:        "abc123",
		UserID:    "user-1",
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: fixedNow,
		ExpiresAt: fixedNow.Add(24 * time.Hour),
	}
}

func testRecordJSON(t *testing.T, s *entity.Session) []byte {
	t.Helper()
	b, err := json.Marshal(record{
		UserID:    s.UserID,
		UserAgent: s.UserAgent,
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	})
	require.NoError(t, err)
	return b
}

func TestNewSessionRedis_DefaultPrefix(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	repo := NewSessionRedis(rdb, "")

	assert.Equal(t, DefaultKeyPrefix, repo.prefix)
}

func TestSessionRedis_Create(t *testing.T) {
	t.Run("stores with ttl until expiry", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		s := testSession()
		mock.ExpectSet("session:abc123", testRecordJSON(t, s), 24*time.Hour).SetVal("OK")

		err := repo.Create(context.Background(), s)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already expired", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		s := testSession()
		s.ExpiresAt = fixedNow

		err := repo.Create(context.Background(), s)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		s := testSession()
		mock.ExpectSet("session:abc123", testRecordJSON(t, s), 24*time.Hour).SetErr(errors.New("connection refused"))

		err := repo.Create(context.Background(), s)

		assert.Error(t, err)
	})
}

func TestSessionRedis_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		s := testSession()
		mock.ExpectGet("session:abc123").SetVal(string(testRecordJSON(t, s)))

		found, err := repo.FindByID(context.Background(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, "abc123", found.ID)
		assert.Equal(t, "user-1", found.UserID)
		assert.True(t, s.ExpiresAt.Equal(found.ExpiresAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing key", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectGet("session:missing").RedisNil()

		found, err := repo.FindByID(context.Background(), "missing")

		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
		assert.Nil(t, found)
	})

	t.Run("corrupt value", func(t *testing.T) {
		repo, mock := newTestRepo(t)
		mock.ExpectGet("session:abc123").SetVal("not json")

		_, err := repo.FindByID(context.Background(), "abc123")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, usecase.ErrSessionNotFound)
	})
}

func TestSessionRedis_Delete(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectDel("session:abc123").SetVal(0)

	err := repo.Delete(context.Background(), "abc123")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRedis_DeleteExpired(t *testing.T) {
	repo, mock := newTestRepo(t)

	n, err := repo.DeleteExpired(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
