package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilworks/glossary/internal/ports"
	"github.com/tilworks/glossary/internal/testutil"
)

func TestAcronymRepo_CreateGetUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewAcronymRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")

	created, err := repo.Create(ctx, ports.CreateAcronymParams{
		Short:  "  OMG ",
		Long:   "Oh My God",
		UserID: owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "OMG", created.Short, "input is trimmed on insert")

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oh My God", got.Long)

	other := createTestUser(t, db, "bob")
	updated, err := repo.Update(ctx, created.ID, ports.UpdateAcronymParams{
		Short:  "OMG",
		Long:   "Oh My Goodness",
		UserID: other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Oh My Goodness", updated.Long)
	assert.Equal(t, other.ID, updated.UserID, "ownership follows the updater")
}

func TestAcronymRepo_UpdateMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewAcronymRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	_, err := repo.Update(ctx, "00000000-0000-0000-0000-000000000000", ports.UpdateAcronymParams{
		Short: "X", Long: "Y", UserID: owner.ID,
	})
	assert.ErrorIs(t, err, ErrAcronymNotFound)
}

func TestAcronymRepo_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewAcronymRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	created, err := repo.Create(ctx, ports.CreateAcronymParams{
		Short: "BRB", Long: "Be Right Back", UserID: owner.ID,
	})
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second delete reports no row")
}

func TestAcronymRepo_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewAcronymRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	for _, pair := range [][2]string{
		{"OMG", "Oh My God"},
		{"BRB", "Be Right Back"},
	} {
		_, err := repo.Create(ctx, ports.CreateAcronymParams{
			Short: pair[0], Long: pair[1], UserID: owner.ID,
		})
		require.NoError(t, err)
	}

	byShort, err := repo.Search(ctx, "OMG")
	require.NoError(t, err)
	require.Len(t, byShort, 1)
	assert.Equal(t, "OMG", byShort[0].Short)

	byLong, err := repo.Search(ctx, "Be Right Back")
	require.NoError(t, err)
	require.Len(t, byLong, 1)
	assert.Equal(t, "BRB", byLong[0].Short)

	none, err := repo.Search(ctx, "nothing matches")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAcronymRepo_FirstAndSorted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewAcronymRepo(db)
	ctx := context.Background()

	_, err := repo.First(ctx)
	assert.ErrorIs(t, err, ErrAcronymNotFound)

	owner := createTestUser(t, db, "alice")
	for _, short := range []string{"ZZZ", "AAA", "MMM"} {
		_, createErr := repo.Create(ctx, ports.CreateAcronymParams{
			Short: short, Long: "long form", UserID: owner.ID,
		})
		require.NoError(t, createErr)
	}

	first, err := repo.First(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ZZZ", first.Short, "first follows insertion order")

	sorted, err := repo.SortedByShort(ctx)
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "AAA", sorted[0].Short)
	assert.Equal(t, "MMM", sorted[1].Short)
	assert.Equal(t, "ZZZ", sorted[2].Short)
}
