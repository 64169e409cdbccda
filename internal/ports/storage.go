package ports

import (
	"context"

	"github.com/tilworks/glossary/internal/domain/model"
)

// CreateUserParams carries the persisted fields for a new user. PasswordHash
// is already hashed by the caller; repositories never see plaintext.
type CreateUserParams struct {
	Name         string
	Username     string
	PasswordHash string
	ProfileURL   *string
}

// UserRepository provides database operations for users.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

// TokenRepository provides database operations for bearer tokens.
type TokenRepository interface {
	// Insert persists a token value bound to a user.
	Insert(ctx context.Context, token, userID string) (*model.Token, error)
	// ResolveUser returns the user owning the token, or a token_invalid
	// error for unknown values. Lookup is keyed on the unique token column.
	ResolveUser(ctx context.Context, token string) (*model.User, error)
	// DeleteByToken revokes a token. Idempotent: deleting an unknown value
	// is not an error.
	DeleteByToken(ctx context.Context, token string) error
}

// CreateAcronymParams carries the persisted fields for a new acronym.
type CreateAcronymParams struct {
	Short  string
	Long   string
	UserID string
}

// UpdateAcronymParams carries the mutable fields of an acronym.
type UpdateAcronymParams struct {
	Short  string
	Long   string
	UserID string
}

// AcronymRepository provides database operations for acronyms.
type AcronymRepository interface {
	Create(ctx context.Context, params CreateAcronymParams) (*model.Acronym, error)
	GetByID(ctx context.Context, id string) (*model.Acronym, error)
	List(ctx context.Context) ([]*model.Acronym, error)
	Update(ctx context.Context, id string, params UpdateAcronymParams) (*model.Acronym, error)
	Delete(ctx context.Context, id string) (bool, error)
	// Search matches the term exactly against short or long.
	Search(ctx context.Context, term string) ([]*model.Acronym, error)
	First(ctx context.Context) (*model.Acronym, error)
	SortedByShort(ctx context.Context) ([]*model.Acronym, error)
}

// CategoryStore is the storage collaborator for relationship reconciliation.
// FindOrCreateCategory must treat a duplicate-name insert as a non-error and
// return the winning row; Attach must tolerate an already-present pair.
type CategoryStore interface {
	CurrentCategories(ctx context.Context, acronymID string) ([]model.Category, error)
	FindOrCreateCategory(ctx context.Context, name string) (*model.Category, error)
	Attach(ctx context.Context, acronymID, categoryID string) error
	Detach(ctx context.Context, acronymID, categoryID string) error
}

// CategoryRepository extends CategoryStore with the read surface used by the
// category endpoints.
type CategoryRepository interface {
	CategoryStore
	List(ctx context.Context) ([]*model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	AcronymsFor(ctx context.Context, categoryID string) ([]*model.Acronym, error)
}
