package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/tilworks/glossary/internal/domain/model"
	"github.com/tilworks/glossary/internal/ports"
	"github.com/tilworks/glossary/internal/testutil"
)

func createTestAcronym(t *testing.T, repo *AcronymRepo, userID, short string) *model.Acronym {
	t.Helper()
	acr, err := repo.Create(context.Background(), ports.CreateAcronymParams{
		Short: short, Long: short + " long form", UserID: userID,
	})
	require.NoError(t, err)
	return acr
}

func TestCategoryRepo_FindOrCreateIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewCategoryRepo(db)
	ctx := context.Background()

	first, err := repo.FindOrCreateCategory(ctx, "slang")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := repo.FindOrCreateCategory(ctx, "slang")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same name resolves to the same row")

	trimmed, err := repo.FindOrCreateCategory(ctx, "  slang  ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, trimmed.ID)
}

func TestCategoryRepo_FindOrCreateConcurrentCallersShareRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewCategoryRepo(db)
	acronyms := NewAcronymRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	omg := createTestAcronym(t, acronyms, owner.ID, "OMG")
	brb := createTestAcronym(t, acronyms, owner.ID, "BRB")

	// Both callers introduce the same unseen name at once. One insert wins
	// the unique race; the loser must recover by re-reading the winner's row.
	start := make(chan struct{})
	var g errgroup.Group
	results := make([]*model.Category, 2)
	for i := range results {
		g.Go(func() error {
			<-start
			cat, err := repo.FindOrCreateCategory(ctx, "obscure")
			results[i] = cat
			return err
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.Equal(t, results[0].ID, results[1].ID, "both callers resolve to the same row")

	var count int
	err := db.QueryRowContext(ctx, `SELECT count(*) FROM categories WHERE name = $1`, "obscure").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "the race must not duplicate the category")

	require.NoError(t, repo.Attach(ctx, omg.ID, results[0].ID))
	require.NoError(t, repo.Attach(ctx, brb.ID, results[1].ID))

	attached, err := repo.AcronymsFor(ctx, results[0].ID)
	require.NoError(t, err)
	require.Len(t, attached, 2)
}

func TestCategoryRepo_AttachDetach(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewCategoryRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	acr := createTestAcronym(t, NewAcronymRepo(db), owner.ID, "OMG")
	cat, err := repo.FindOrCreateCategory(ctx, "slang")
	require.NoError(t, err)

	require.NoError(t, repo.Attach(ctx, acr.ID, cat.ID))
	// Re-attaching the same pair is absorbed by the conflict clause.
	require.NoError(t, repo.Attach(ctx, acr.ID, cat.ID))

	current, err := repo.CurrentCategories(ctx, acr.ID)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "slang", current[0].Name)

	require.NoError(t, repo.Detach(ctx, acr.ID, cat.ID))
	// Detaching an absent pair succeeds.
	require.NoError(t, repo.Detach(ctx, acr.ID, cat.ID))

	current, err = repo.CurrentCategories(ctx, acr.ID)
	require.NoError(t, err)
	assert.Empty(t, current)
}

func TestCategoryRepo_CurrentCategoriesOrdered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewCategoryRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	acr := createTestAcronym(t, NewAcronymRepo(db), owner.ID, "OMG")

	for _, name := range []string{"zulu", "alpha", "mike"} {
		cat, err := repo.FindOrCreateCategory(ctx, name)
		require.NoError(t, err)
		require.NoError(t, repo.Attach(ctx, acr.ID, cat.ID))
	}

	current, err := repo.CurrentCategories(ctx, acr.ID)
	require.NoError(t, err)
	require.Len(t, current, 3)
	assert.Equal(t, "alpha", current[0].Name)
	assert.Equal(t, "mike", current[1].Name)
	assert.Equal(t, "zulu", current[2].Name)
}

func TestCategoryRepo_AcronymsFor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewCategoryRepo(db)
	acronyms := NewAcronymRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	cat, err := repo.FindOrCreateCategory(ctx, "slang")
	require.NoError(t, err)

	omg := createTestAcronym(t, acronyms, owner.ID, "OMG")
	brb := createTestAcronym(t, acronyms, owner.ID, "BRB")
	createTestAcronym(t, acronyms, owner.ID, "ETA")

	require.NoError(t, repo.Attach(ctx, omg.ID, cat.ID))
	require.NoError(t, repo.Attach(ctx, brb.ID, cat.ID))

	attached, err := repo.AcronymsFor(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, attached, 2)
	assert.Equal(t, "BRB", attached[0].Short)
	assert.Equal(t, "OMG", attached[1].Short)
}

func TestCategoryRepo_DeleteAcronymCascadesLinks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewCategoryRepo(db)
	acronyms := NewAcronymRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "alice")
	acr := createTestAcronym(t, acronyms, owner.ID, "OMG")
	cat, err := repo.FindOrCreateCategory(ctx, "slang")
	require.NoError(t, err)
	require.NoError(t, repo.Attach(ctx, acr.ID, cat.ID))

	ok, err := acronyms.Delete(ctx, acr.ID)
	require.NoError(t, err)
	require.True(t, ok)

	attached, err := repo.AcronymsFor(ctx, cat.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)

	// The category itself survives.
	_, err = repo.GetByID(ctx, cat.ID)
	assert.NoError(t, err)
}

func TestCategoryRepo_GetMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	repo := NewCategoryRepo(db)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
