package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/income-api/internal/model"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	server *server.Server
}

func NewUserRepository(s *server.Server) *UserRepository {
	return &UserRepository{server: s}
}

const userColumns = `id, name, email, password_hash, email_verified_at, created_at, updated_at`

// Create inserts a user. A duplicate email surfaces as a unique violation
// on users_email_key.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES (@name, @email, @password_hash)
		RETURNING `+userColumns, pgx.NamedArgs{
		"name":          name,
		"email":         email,
		"password_hash": passwordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create user query for email=%s: %w", email, err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if err != nil {
		return nil, fmt.Errorf("failed to collect user from table:users: email=%s: %w", email, err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `WHERE id = @id`, pgx.NamedArgs{"id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `WHERE email = @email`, pgx.NamedArgs{"email": email})
}

func (r *UserRepository) getOne(ctx context.Context, where string, args pgx.NamedArgs) (*model.User, error) {
	rows, err := r.server.DB.Pool.Query(ctx, `SELECT `+userColumns+` FROM users `+where, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute get user query: %w", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.User])
	if err != nil {
		return nil, fmt.Errorf("failed to collect user from table:users: %w", err)
	}
	return user, nil
}

// MarkEmailVerified sets email_verified_at once; repeated calls keep the
// first timestamp.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id int64) error {
	tag, err := r.server.DB.Pool.Exec(ctx, `
		UPDATE users
		SET email_verified_at = COALESCE(email_verified_at, NOW()), updated_at = NOW()
		WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to verify email for user id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to verify email for user id=%d: %w", id, pgx.ErrNoRows)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.server.DB.Pool.Exec(ctx, `
		UPDATE users
		SET password_hash = @password_hash, updated_at = NOW()
		WHERE id = @id
	`, pgx.NamedArgs{
		"id":            id,
		"password_hash": passwordHash,
	})
	if err != nil {
		return fmt.Errorf("failed to update password for user id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update password for user id=%d: %w", id, pgx.ErrNoRows)
	}
	return nil
}
