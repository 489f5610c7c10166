package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"facecounter_backend/internal/feature/auth/domain/entity"
	"facecounter_backend/internal/feature/auth/usecase"
)

// PgxQuerier is the subset of *pgxpool.Pool the Postgres repository needs.
type PgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	insertUserSQL = `INSERT INTO users (email, password_hash, profile)
VALUES ($1, $2, $3::jsonb)
RETURNING id::text, created_at, updated_at`

	selectUserColumns = `SELECT id::text, email, password_hash, profile::text, created_at, updated_at FROM users`

	updateProfileSQL = `UPDATE users SET profile = $2::jsonb, updated_at = now() WHERE id = $1`
)

// userPostgres is the managed cloud implementation of UserRepository (Supabase or any hosted Postgres).
// Uniqueness on email is the users_email_key constraint created by the migrations.
type userPostgres struct {
	db PgxQuerier
}

// Compile-time check to ensure userPostgres implements UserRepository.
var _ usecase.UserRepository = (*userPostgres)(nil)

// NewUserPostgres creates a new instance of userPostgres.
func NewUserPostgres(db PgxQuerier) *userPostgres {
	return &userPostgres{db: db}
}

// Create inserts the user and sets the id, created_at and updated_at assigned by the database.
func (r *userPostgres) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	profile, err := entity.SerializeProfile(u.Profile)
	if err != nil {
		return err
	}
	row := r.db.QueryRow(ctx, insertUserSQL, u.Email, u.PasswordHash, profile)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email.
func (r *userPostgres) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, usecase.ErrUserNotFound
	}
	return r.scanUser(r.db.QueryRow(ctx, selectUserColumns+" WHERE email = $1", email))
}

// FindByID retrieves a user by id. Ids that are not UUIDs cannot exist and yield ErrUserNotFound.
func (r *userPostgres) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usecase.ErrUserNotFound
	}
	return r.scanUser(r.db.QueryRow(ctx, selectUserColumns+" WHERE id = $1", id))
}

// UpdateProfile replaces the stored profile wholesale.
func (r *userPostgres) UpdateProfile(ctx context.Context, id string, profile *entity.Profile) error {
	if _, err := uuid.Parse(id); err != nil {
		return usecase.ErrUserNotFound
	}
	raw, err := entity.SerializeProfile(profile)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, updateProfileSQL, id, raw)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *userPostgres) scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u       entity.User
		profile *string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &profile, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	p, err := entity.DeserializeProfile(profile)
	if err != nil {
		return nil, err
	}
	u.Profile = p
	return &u, nil
}
