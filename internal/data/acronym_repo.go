package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tilworks/glossary/internal/data/pgxutil"
	"github.com/tilworks/glossary/internal/domain/model"
	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/ports"
)

const acronymColumns = `id, short, long, user_id, created_at, updated_at`

// AcronymRepo provides database operations for acronyms.
type AcronymRepo struct {
	DB *sql.DB
}

// NewAcronymRepo creates a new AcronymRepo.
func NewAcronymRepo(db *sql.DB) *AcronymRepo {
	return &AcronymRepo{DB: db}
}

// Create inserts a new acronym owned by a user.
func (r *AcronymRepo) Create(ctx context.Context, params ports.CreateAcronymParams) (*model.Acronym, error) {
	if params.UserID == "" {
		return nil, errors.New("user ID is required")
	}

	var out model.Acronym
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO acronyms (id, short, long, user_id)
			VALUES ($1, $2, $3, $4)
			RETURNING `+acronymColumns,
			uuid.NewString(),
			strings.TrimSpace(params.Short),
			strings.TrimSpace(params.Long),
			params.UserID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Acronym])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create acronym: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// GetByID retrieves an acronym by id.
func (r *AcronymRepo) GetByID(ctx context.Context, id string) (*model.Acronym, error) {
	var out model.Acronym
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+acronymColumns+` FROM acronyms WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Acronym])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAcronymNotFound
		}
		return nil, fmt.Errorf("failed to get acronym by ID: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// List retrieves all acronyms in insertion order.
func (r *AcronymRepo) List(ctx context.Context) ([]*model.Acronym, error) {
	return r.listByQuery(ctx, `SELECT `+acronymColumns+` FROM acronyms ORDER BY created_at`, "failed to list acronyms")
}

// Update rewrites the mutable fields of an acronym.
func (r *AcronymRepo) Update(ctx context.Context, id string, params ports.UpdateAcronymParams) (*model.Acronym, error) {
	var out model.Acronym
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE acronyms
			SET short = $1, long = $2, user_id = $3, updated_at = now()
			WHERE id = $4
			RETURNING `+acronymColumns,
			strings.TrimSpace(params.Short),
			strings.TrimSpace(params.Long),
			params.UserID,
			id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Acronym])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAcronymNotFound
		}
		return nil, fmt.Errorf("failed to update acronym: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// Delete removes an acronym by id. Association rows go with it via cascade.
func (r *AcronymRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM acronyms WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete acronym: %w", apperrors.MapDBError(err))
	}
	return rows > 0, nil
}

// Search returns acronyms whose short or long form equals the term.
func (r *AcronymRepo) Search(ctx context.Context, term string) ([]*model.Acronym, error) {
	return r.listByQuery(ctx,
		`SELECT `+acronymColumns+` FROM acronyms WHERE short = $1 OR long = $1 ORDER BY created_at`,
		"failed to search acronyms", term)
}

// First returns the oldest acronym, or ErrAcronymNotFound when none exist.
func (r *AcronymRepo) First(ctx context.Context) (*model.Acronym, error) {
	var out model.Acronym
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+acronymColumns+` FROM acronyms ORDER BY created_at LIMIT 1`)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Acronym])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAcronymNotFound
		}
		return nil, fmt.Errorf("failed to get first acronym: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// SortedByShort returns all acronyms ordered by their short form.
func (r *AcronymRepo) SortedByShort(ctx context.Context) ([]*model.Acronym, error) {
	return r.listByQuery(ctx, `SELECT `+acronymColumns+` FROM acronyms ORDER BY short`, "failed to sort acronyms")
}

// listByQuery executes a multi-row acronym query.
func (r *AcronymRepo) listByQuery(ctx context.Context, q, errMsg string, args ...any) ([]*model.Acronym, error) {
	var rowsOut []model.Acronym
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Acronym])
		return err
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}

	res := make([]*model.Acronym, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
