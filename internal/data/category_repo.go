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
)

// CategoryRepo provides database operations for categories and their
// many-to-many associations with acronyms.
type CategoryRepo struct {
	DB *sql.DB
}

// NewCategoryRepo creates a new CategoryRepo.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{DB: db}
}

// FindOrCreateCategory returns the category with the given name, creating it
// when absent. Two concurrent callers introducing the same new name must end
// up with the same row: the insert races on the unique name column, and the
// loser re-reads the winner's row instead of surfacing the conflict.
func (r *CategoryRepo) FindOrCreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	if cat, err := r.getByName(ctx, name); err == nil {
		return cat, nil
	} else if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	var out model.Category
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO categories (id, name)
			VALUES ($1, $2)
			RETURNING id, name`,
			uuid.NewString(), name)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Category])
		return err
	})
	if err == nil {
		return &out, nil
	}
	if apperrors.IsUniqueViolation(err) {
		// Lost the insert race; the winning row satisfies the caller.
		return r.getByName(ctx, name)
	}
	return nil, fmt.Errorf("failed to create category: %w", apperrors.MapDBError(err))
}

// CurrentCategories returns the categories currently attached to an acronym.
func (r *CategoryRepo) CurrentCategories(ctx context.Context, acronymID string) ([]model.Category, error) {
	var rowsOut []model.Category
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT c.id, c.name
			FROM categories c
			JOIN acronym_categories ac ON ac.category_id = c.id
			WHERE ac.acronym_id = $1
			ORDER BY c.name`, acronymID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Category])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to read current categories: %w", apperrors.MapDBError(err))
	}
	return rowsOut, nil
}

// Attach records the acronym/category association. The pair carries a
// uniqueness constraint; attaching an already-present pair is a no-op.
func (r *CategoryRepo) Attach(ctx context.Context, acronymID, categoryID string) error {
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO acronym_categories (acronym_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT (acronym_id, category_id) DO NOTHING`,
			acronymID, categoryID)
		return err
	}); err != nil {
		return fmt.Errorf("failed to attach category: %w", apperrors.MapDBError(err))
	}
	return nil
}

// Detach removes the acronym/category association. Detaching an absent pair
// is a no-op.
func (r *CategoryRepo) Detach(ctx context.Context, acronymID, categoryID string) error {
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			DELETE FROM acronym_categories
			WHERE acronym_id = $1 AND category_id = $2`,
			acronymID, categoryID)
		return err
	}); err != nil {
		return fmt.Errorf("failed to detach category: %w", apperrors.MapDBError(err))
	}
	return nil
}

// List retrieves all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]*model.Category, error) {
	var rowsOut []model.Category
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Category])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.Category, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// GetByID retrieves a category by id.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var out model.Category
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id, name FROM categories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Category])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// AcronymsFor returns the acronyms attached to a category.
func (r *CategoryRepo) AcronymsFor(ctx context.Context, categoryID string) ([]*model.Acronym, error) {
	var rowsOut []model.Acronym
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT a.id, a.short, a.long, a.user_id, a.created_at, a.updated_at
			FROM acronyms a
			JOIN acronym_categories ac ON ac.acronym_id = a.id
			WHERE ac.category_id = $1
			ORDER BY a.short`, categoryID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Acronym])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list acronyms for category: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.Acronym, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// getByName retrieves a category by its unique name.
func (r *CategoryRepo) getByName(ctx context.Context, name string) (*model.Category, error) {
	var out model.Category
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id, name FROM categories WHERE name = $1`, name)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Category])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}
