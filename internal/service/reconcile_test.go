package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tilworks/glossary/internal/domain/model"
	"github.com/tilworks/glossary/internal/mocks"
)

const testAcronymID = "acr-1"

func newReconciler(t *testing.T) (*mocks.MockCategoryStore, *Reconciler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := mocks.NewMockCategoryStore(ctrl)
	return store, NewReconciler(store)
}

func categories(names ...string) []model.Category {
	out := make([]model.Category, len(names))
	for i, n := range names {
		out[i] = model.Category{ID: "cat-" + n, Name: n}
	}
	return out
}

func TestReconciler_AttachesAndDetachesOnlyTheDifference(t *testing.T) {
	t.Parallel()
	store, rc := newReconciler(t)
	ctx := context.Background()

	// current {a,b,c}, desired {b,c,d}: exactly one attach and one detach.
	store.EXPECT().CurrentCategories(ctx, testAcronymID).Return(categories("a", "b", "c"), nil)
	store.EXPECT().FindOrCreateCategory(gomock.Any(), "d").Return(&model.Category{ID: "cat-d", Name: "d"}, nil)
	store.EXPECT().Attach(gomock.Any(), testAcronymID, "cat-d").Return(nil)
	store.EXPECT().Detach(gomock.Any(), testAcronymID, "cat-a").Return(nil)

	report, err := rc.Reconcile(ctx, testAcronymID, []string{"b", "c", "d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, report.Attached)
	assert.Equal(t, []string{"a"}, report.Detached)
	assert.True(t, report.Clean())
}

func TestReconciler_SameSetIsNoOp(t *testing.T) {
	t.Parallel()
	store, rc := newReconciler(t)
	ctx := context.Background()

	store.EXPECT().CurrentCategories(ctx, testAcronymID).Return(categories("a", "b"), nil)

	report, err := rc.Reconcile(ctx, testAcronymID, []string{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, report.Attached)
	assert.Empty(t, report.Detached)
	assert.True(t, report.Clean())
}

func TestReconciler_TrimsAndDeduplicatesDesiredNames(t *testing.T) {
	t.Parallel()
	store, rc := newReconciler(t)
	ctx := context.Background()

	store.EXPECT().CurrentCategories(ctx, testAcronymID).Return(nil, nil)
	store.EXPECT().FindOrCreateCategory(gomock.Any(), "a").Return(&model.Category{ID: "cat-a", Name: "a"}, nil)
	store.EXPECT().Attach(gomock.Any(), testAcronymID, "cat-a").Return(nil)

	report, err := rc.Reconcile(ctx, testAcronymID, []string{" a ", "a", "", "  "})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, report.Attached)
}

func TestReconciler_ItemizesFailuresWithoutAbortingBatch(t *testing.T) {
	t.Parallel()
	store, rc := newReconciler(t)
	ctx := context.Background()

	store.EXPECT().CurrentCategories(ctx, testAcronymID).Return(categories("x", "y"), nil)
	store.EXPECT().FindOrCreateCategory(gomock.Any(), "a").Return(&model.Category{ID: "cat-a", Name: "a"}, nil)
	store.EXPECT().Attach(gomock.Any(), testAcronymID, "cat-a").Return(errors.New("attach blew up"))
	store.EXPECT().FindOrCreateCategory(gomock.Any(), "b").Return(&model.Category{ID: "cat-b", Name: "b"}, nil)
	store.EXPECT().Attach(gomock.Any(), testAcronymID, "cat-b").Return(nil)
	store.EXPECT().Detach(gomock.Any(), testAcronymID, "cat-x").Return(errors.New("detach blew up"))
	store.EXPECT().Detach(gomock.Any(), testAcronymID, "cat-y").Return(nil)

	report, err := rc.Reconcile(ctx, testAcronymID, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, report.Attached)
	assert.Equal(t, []string{"y"}, report.Detached)
	require.Len(t, report.Failed, 2)
	assert.False(t, report.Clean())

	assert.Equal(t, "a", report.Failed[0].Name)
	assert.Equal(t, StepAttach, report.Failed[0].Direction)
	assert.Contains(t, report.Failed[0].Err, "attach blew up")
	assert.Equal(t, "x", report.Failed[1].Name)
	assert.Equal(t, StepDetach, report.Failed[1].Direction)
}

func TestReconciler_ReadFailureAbortsBeforeAnyWrite(t *testing.T) {
	t.Parallel()
	store, rc := newReconciler(t)
	ctx := context.Background()

	store.EXPECT().CurrentCategories(ctx, testAcronymID).Return(nil, errors.New("db down"))

	_, err := rc.Reconcile(ctx, testAcronymID, []string{"a"})
	require.Error(t, err)
}

func TestDiffCategories(t *testing.T) {
	t.Parallel()

	toAdd, toRemove := diffCategories(categories("a", "b", "c"), []string{"b", "c", "d", "e"})
	assert.Equal(t, []string{"d", "e"}, toAdd)
	require.Len(t, toRemove, 1)
	assert.Equal(t, "a", toRemove[0].Name)

	toAdd, toRemove = diffCategories(nil, nil)
	assert.Empty(t, toAdd)
	assert.Empty(t, toRemove)
}
