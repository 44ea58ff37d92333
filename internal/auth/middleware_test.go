package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, sawClaims *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r) != nil {
			*sawClaims = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdminUI_RedirectsWithoutSession(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)
	var sawClaims bool
	handler := RequireAdminUI(sm)(okHandler(t, &sawClaims))

	req := httptest.NewRequest("GET", "/admin/editor/getting-started", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login?next=%2Fadmin%2Feditor%2Fgetting-started", rec.Header().Get("Location"))
	assert.False(t, sawClaims)
}

func TestRequireAdminUI_PassesValidSession(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)
	token, err := sm.Issue()
	require.NoError(t, err)

	var sawClaims bool
	handler := RequireAdminUI(sm)(okHandler(t, &sawClaims))

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawClaims, "claims must be injected into the request context")
}

func TestRequireAdminAPI_RejectsWithoutSession(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)
	var sawClaims bool
	handler := RequireAdminAPI(sm)(okHandler(t, &sawClaims))

	req := httptest.NewRequest("GET", "/api/admin/mdx", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unauthorized", resp["error"])
}

func TestRequireAdminAPI_RejectsGarbageCookie(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)
	var sawClaims bool
	handler := RequireAdminAPI(sm)(okHandler(t, &sawClaims))

	req := httptest.NewRequest("GET", "/api/admin/mdx", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, sawClaims)
}

func TestRequireAdminAPI_PassesValidSession(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)
	token, err := sm.Issue()
	require.NoError(t, err)

	var sawClaims bool
	handler := RequireAdminAPI(sm)(okHandler(t, &sawClaims))

	req := httptest.NewRequest("GET", "/api/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawClaims)
}

func TestSessionCookie_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "token-value", 3600, CookieConfig{Secure: true})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec, CookieConfig{})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}
