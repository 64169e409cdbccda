package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tilworks/glossary/internal/data/pgxutil"
	"github.com/tilworks/glossary/internal/domain/model"
	apperrors "github.com/tilworks/glossary/internal/errors"
)

// TokenRepo provides database operations for bearer tokens. Lookups are
// keyed on the unique token column.
type TokenRepo struct {
	DB *sql.DB
}

// NewTokenRepo creates a new TokenRepo.
func NewTokenRepo(db *sql.DB) *TokenRepo {
	return &TokenRepo{DB: db}
}

// Insert persists a token value bound to a user.
func (r *TokenRepo) Insert(ctx context.Context, token, userID string) (*model.Token, error) {
	if token == "" {
		return nil, errors.New("token value is required")
	}
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	var out model.Token
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO tokens (id, token, user_id)
			VALUES ($1, $2, $3)
			RETURNING id, token, user_id, created_at`,
			uuid.NewString(), token, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Token])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to insert token: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// ResolveUser returns the user owning the token. Unknown values return
// ErrTokenNotFound rather than an internal error.
func (r *TokenRepo) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}

	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT u.id, u.name, u.username, u.password_hash, u.profile_url, u.created_at, u.updated_at
			FROM users u
			JOIN tokens t ON t.user_id = u.id
			WHERE t.token = $1`, token)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to resolve token: %w", apperrors.MapDBError(err))
	}
	return &user, nil
}

// DeleteByToken revokes a token. Idempotent: an unknown value is a no-op.
func (r *TokenRepo) DeleteByToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `DELETE FROM tokens WHERE token = $1`, token)
		return err
	}); err != nil {
		return fmt.Errorf("failed to delete token: %w", apperrors.MapDBError(err))
	}
	return nil
}
