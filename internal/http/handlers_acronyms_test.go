package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tilworks/glossary/internal/data"
	"github.com/tilworks/glossary/internal/domain/model"
	"github.com/tilworks/glossary/internal/mocks"
	"github.com/tilworks/glossary/internal/ports"
	"github.com/tilworks/glossary/internal/service"
)

type acronymHandlerMocks struct {
	acronyms   *mocks.MockAcronymRepository
	categories *mocks.MockCategoryRepository
	users      *mocks.MockUserRepository
}

func newAcronymHandlers(t *testing.T) (acronymHandlerMocks, *AcronymHandlers) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := acronymHandlerMocks{
		acronyms:   mocks.NewMockAcronymRepository(ctrl),
		categories: mocks.NewMockCategoryRepository(ctrl),
		users:      mocks.NewMockUserRepository(ctrl),
	}
	svc := service.NewAcronymService(service.AcronymServiceOptions{
		Acronyms:   m.acronyms,
		Categories: m.categories,
		Reconciler: service.NewReconciler(m.categories),
	})
	users := service.NewUserService(m.users, mocks.NewMockCredentialVerifier(ctrl))
	return m, &AcronymHandlers{Svc: svc, Users: users}
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := SetUserInContext(req.Context(), &model.User{ID: "user-1", Username: "alice"})
	return req.WithContext(ctx)
}

func TestAcronymHandlers_Create(t *testing.T) {
	t.Parallel()
	m, h := newAcronymHandlers(t)

	m.acronyms.EXPECT().Create(gomock.Any(), ports.CreateAcronymParams{
		Short:  "OMG",
		Long:   "Oh My God",
		UserID: "user-1",
	}).Return(&model.Acronym{ID: "acr-1", Short: "OMG", Long: "Oh My God", UserID: "user-1"}, nil)
	m.categories.EXPECT().CurrentCategories(gomock.Any(), "acr-1").Return(nil, nil)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/acronyms",
		`{"short":"OMG","long":"Oh My God"}`)
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body service.AcronymWithReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "acr-1", body.Acronym.ID)
}

func TestAcronymHandlers_Create_NoUser(t *testing.T) {
	t.Parallel()
	_, h := newAcronymHandlers(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/acronyms",
		strings.NewReader(`{"short":"OMG","long":"Oh My God"}`))
	h.Create(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAcronymHandlers_Update_NotFound(t *testing.T) {
	t.Parallel()
	m, h := newAcronymHandlers(t)

	m.acronyms.EXPECT().Update(gomock.Any(), "missing", gomock.Any()).
		Return(nil, data.ErrAcronymNotFound)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/acronyms/missing",
		`{"short":"OMG","long":"Oh My God"}`)
	req.SetPathValue("id", "missing")
	h.Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAcronymHandlers_Delete(t *testing.T) {
	t.Parallel()
	m, h := newAcronymHandlers(t)

	m.acronyms.EXPECT().Delete(gomock.Any(), "acr-1").Return(true, nil)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodDelete, "/api/acronyms/acr-1", "")
	req.SetPathValue("id", "acr-1")
	h.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAcronymHandlers_Search_RequiresTerm(t *testing.T) {
	t.Parallel()
	_, h := newAcronymHandlers(t)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/acronyms/search", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_term")
}

func TestAcronymHandlers_Search(t *testing.T) {
	t.Parallel()
	m, h := newAcronymHandlers(t)

	m.acronyms.EXPECT().Search(gomock.Any(), "OMG").
		Return([]*model.Acronym{{ID: "acr-1", Short: "OMG"}}, nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/acronyms/search?term=OMG", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []*model.Acronym
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
}

func TestAcronymHandlers_SetCategories_CleanReport(t *testing.T) {
	t.Parallel()
	m, h := newAcronymHandlers(t)

	m.acronyms.EXPECT().GetByID(gomock.Any(), "acr-1").
		Return(&model.Acronym{ID: "acr-1"}, nil)
	m.categories.EXPECT().CurrentCategories(gomock.Any(), "acr-1").Return(nil, nil)
	m.categories.EXPECT().FindOrCreateCategory(gomock.Any(), "slang").
		Return(&model.Category{ID: "cat-1", Name: "slang"}, nil)
	m.categories.EXPECT().Attach(gomock.Any(), "acr-1", "cat-1").Return(nil)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/acronyms/acr-1/categories",
		`{"categories":["slang"]}`)
	req.SetPathValue("id", "acr-1")
	h.SetCategories(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var report service.ReconcileReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, []string{"slang"}, report.Attached)
}

func TestAcronymHandlers_SetCategories_PartialFailure(t *testing.T) {
	t.Parallel()
	m, h := newAcronymHandlers(t)

	m.acronyms.EXPECT().GetByID(gomock.Any(), "acr-1").
		Return(&model.Acronym{ID: "acr-1"}, nil)
	m.categories.EXPECT().CurrentCategories(gomock.Any(), "acr-1").Return(nil, nil)
	m.categories.EXPECT().FindOrCreateCategory(gomock.Any(), "slang").
		Return(nil, assert.AnError)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/acronyms/acr-1/categories",
		`{"categories":["slang"]}`)
	req.SetPathValue("id", "acr-1")
	h.SetCategories(rec, req)

	require.Equal(t, http.StatusMultiStatus, rec.Code)
	var report service.ReconcileReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Clean())
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "slang", report.Failed[0].Name)
}

func TestAcronymHandlers_User(t *testing.T) {
	t.Parallel()
	m, h := newAcronymHandlers(t)

	m.acronyms.EXPECT().GetByID(gomock.Any(), "acr-1").
		Return(&model.Acronym{ID: "acr-1", UserID: "user-1"}, nil)
	m.users.EXPECT().GetByID(gomock.Any(), "user-1").
		Return(&model.User{ID: "user-1", Name: "Alice", Username: "alice", PasswordHash: "hash"}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/acronyms/acr-1/user", nil)
	req.SetPathValue("id", "acr-1")
	h.User(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body model.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.Username)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestAcronymHandlers_Categories(t *testing.T) {
	t.Parallel()
	m, h := newAcronymHandlers(t)

	m.acronyms.EXPECT().GetByID(gomock.Any(), "acr-1").
		Return(&model.Acronym{ID: "acr-1"}, nil)
	m.categories.EXPECT().CurrentCategories(gomock.Any(), "acr-1").
		Return([]model.Category{{ID: "cat-1", Name: "slang"}}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/acronyms/acr-1/categories", nil)
	req.SetPathValue("id", "acr-1")
	h.Categories(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cats []model.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, "slang", cats[0].Name)
}
