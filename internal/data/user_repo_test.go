package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilworks/glossary/internal/domain/model"
	"github.com/tilworks/glossary/internal/ports"
	"github.com/tilworks/glossary/internal/testutil"
)

// createTestUser inserts a user row for repo tests that need an owner.
func createTestUser(t *testing.T, db *sql.DB, username string) *model.User {
	t.Helper()
	user, err := NewUserRepo(db).Create(context.Background(), ports.CreateUserParams{
		Name:         "Test User",
		Username:     username,
		PasswordHash: "x-hash",
	})
	require.NoError(t, err)
	return user
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewUserRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, ports.CreateUserParams{
		Name:         "Alice",
		Username:     "alice",
		PasswordHash: "hash-a",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewUserRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, ports.CreateUserParams{
		Name: "Alice", Username: "alice", PasswordHash: "hash-a",
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, ports.CreateUserParams{
		Name: "Impostor", Username: "alice", PasswordHash: "hash-b",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserRepo_GetMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewUserRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepo_ListOrderedByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewUserRepo(db)
	ctx := context.Background()

	for _, name := range []string{"charlie", "alice", "bob"} {
		createTestUser(t, db, name)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "charlie", users[2].Username)
}
