package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/tilworks/glossary/internal/domain/auth"
	"github.com/tilworks/glossary/internal/domain/model"
	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/service"
)

// stubAuth satisfies AuthServiceInterface with canned outcomes.
type stubAuth struct {
	token      *model.Token
	loginErr   error
	session    domainauth.Session
	sessionErr error
	user       *model.User
	userErr    error

	revoked         []string
	unauthenticated []string
}

func (s *stubAuth) Login(_ context.Context, _, _ string) (*model.Token, error) {
	return s.token, s.loginErr
}

func (s *stubAuth) RevokeToken(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func (s *stubAuth) LoginSession(_ context.Context, _, _ string) (domainauth.Session, error) {
	return s.session, s.sessionErr
}

func (s *stubAuth) UnauthenticateSession(_ context.Context, sessionID string) error {
	s.unauthenticated = append(s.unauthenticated, sessionID)
	return nil
}

func (s *stubAuth) SessionUser(_ context.Context, _ string) (*model.User, error) {
	return s.user, s.userErr
}

// stubFederation satisfies FederationServiceInterface.
type stubFederation struct {
	authURL  string
	state    string
	beginErr error
	result   *service.CallbackResult
	cbErr    error
}

func (s *stubFederation) BeginLogin() (string, string, error) {
	return s.authURL, s.state, s.beginErr
}

func (s *stubFederation) Callback(_ context.Context, _ string) (*service.CallbackResult, error) {
	return s.result, s.cbErr
}

func TestAuthHandlers_TokenLogin_MissingBasicAuth(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Auth: &stubAuth{}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	h.TokenLogin(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_credentials")
}

func TestAuthHandlers_TokenLogin_Success(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Auth: &stubAuth{
		token: &model.Token{ID: "tok-1", Token: "opaque-value", UserID: "user-1"},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.SetBasicAuth("alice", "secretpass")
	h.TokenLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body model.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "opaque-value", body.Token)
}

func TestAuthHandlers_TokenLogin_BadCredentials(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Auth: &stubAuth{loginErr: apperrors.InvalidCredentials()}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.SetBasicAuth("alice", "wrongpass")
	h.TokenLogin(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlers_TokenLogout(t *testing.T) {
	t.Parallel()
	auth := &stubAuth{}
	h := &AuthHandlers{Auth: auth}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer tok-value")
	h.TokenLogout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"tok-value"}, auth.revoked)
}

func TestAuthHandlers_SessionLogin_SetsCookie(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Auth: &stubAuth{
		session: domainauth.Session{
			ID:        "sess-1",
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice","password":"secretpass"}`))
	req.Header.Set("Content-Type", "application/json")
	h.SessionLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, "sess-1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Positive(t, cookies[0].MaxAge)
}

func TestAuthHandlers_SessionLogin_FormEncoded(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Auth: &stubAuth{
		session: domainauth.Session{
			ID:        "sess-2",
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader("username=alice&password=secretpass"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.SessionLogin(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandlers_SessionLogout(t *testing.T) {
	t.Parallel()
	auth := &stubAuth{}
	h := &AuthHandlers{Auth: auth}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
	h.SessionLogout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"sess-1"}, auth.unauthenticated)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestAuthHandlers_Status(t *testing.T) {
	t.Parallel()

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		h := &AuthHandlers{Auth: &stubAuth{userErr: apperrors.SessionUnauthenticated()}}

		rec := httptest.NewRecorder()
		h.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()
		h := &AuthHandlers{Auth: &stubAuth{
			user: &model.User{ID: "user-1", Name: "Alice", Username: "alice"},
		}}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1"})
		h.Status(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Authenticated bool             `json:"authenticated"`
			User          model.PublicUser `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Authenticated)
		assert.Equal(t, "alice", body.User.Username)
	})
}

func TestAuthHandlers_FederatedLogin_RedirectsWithStateCookie(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Federation: &stubFederation{
		authURL: "https://provider.example/authorize?state=abc",
		state:   "abc",
	}}

	rec := httptest.NewRecorder()
	h.FederatedLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://provider.example/authorize?state=abc", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "oauth_state", cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
}

func TestAuthHandlers_FederatedCallback_MissingCode(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Federation: &stubFederation{}}

	rec := httptest.NewRecorder()
	h.FederatedCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_code")
}

func TestAuthHandlers_FederatedCallback_StateMismatch(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Federation: &stubFederation{}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=xyz&state=tampered", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "original"})
	h.FederatedCallback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

func TestAuthHandlers_FederatedCallback_Success(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Federation: &stubFederation{
		result: &service.CallbackResult{
			Session: domainauth.Session{
				ID:        "sess-fed",
				UserID:    "user-1",
				ExpiresAt: time.Now().Add(time.Hour),
			},
			User: &model.User{ID: "user-1"},
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=xyz&state=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "abc"})
	h.FederatedCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "sess-fed", sessionCookie.Value)
}

func TestAuthHandlers_FederatedCallback_StaleTokenRetries(t *testing.T) {
	t.Parallel()
	h := &AuthHandlers{Federation: &stubFederation{
		authURL: "https://provider.example/authorize?state=fresh",
		state:   "fresh",
		result:  &service.CallbackResult{Retry: true},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=xyz&state=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "abc"})
	h.FederatedCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://provider.example/authorize?state=fresh", rec.Header().Get("Location"))
}
