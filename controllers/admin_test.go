package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jewelry-commerce/cache"
	"jewelry-commerce/middleware"
	"jewelry-commerce/utils"
)

func newTestAdminController(t *testing.T) *AdminController {
	t.Helper()
	utils.JwtKey = []byte("test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	return &AdminController{PasswordHash: hash}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	ac := newTestAdminController(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"open-sesame"}`))
	rec := httptest.NewRecorder()
	ac.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, utils.SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	claims, err := utils.ParseSessionToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ac := newTestAdminController(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"guess"}`))
	rec := httptest.NewRecorder()
	ac.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAdminAuthGatesOnCookie(t *testing.T) {
	ac := newTestAdminController(t)

	protected := middleware.AdminAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No cookie: rejected.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage cookie: rejected.
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: "not-a-token"})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Cookie from a real login: accepted.
	loginReq := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"open-sesame"}`))
	loginRec := httptest.NewRecorder()
	ac.Login(loginRec, loginReq)
	require.Len(t, loginRec.Result().Cookies(), 1)

	req = httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.AddCookie(loginRec.Result().Cookies()[0])
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutExpiresCookie(t *testing.T) {
	ac := newTestAdminController(t)

	rec := httptest.NewRecorder()
	ac.Logout(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, utils.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestLogoutClearsCacheOnlyWithValidSession(t *testing.T) {
	ac := newTestAdminController(t)
	store := cache.NewMemoryStore()
	ac.Prefetcher = cache.NewPrefetcher(store, nil)
	ctx := context.Background()

	seed := func() {
		require.NoError(t, store.Set(ctx, cache.ProductListKey(), json.RawMessage(`[]`)))
	}
	cached := func() bool {
		value, _, err := store.Get(ctx, cache.ProductListKey())
		require.NoError(t, err)
		return value != nil
	}

	// No cookie: the cache survives.
	seed()
	rec := httptest.NewRecorder()
	ac.Logout(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cached())

	// Garbage cookie: the cache survives.
	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: "not-a-token"})
	rec = httptest.NewRecorder()
	ac.Logout(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cached())

	// Cookie from a real login: the cache is emptied.
	loginRec := httptest.NewRecorder()
	ac.Login(loginRec, httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"open-sesame"}`)))
	require.Len(t, loginRec.Result().Cookies(), 1)

	req = httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(loginRec.Result().Cookies()[0])
	rec = httptest.NewRecorder()
	ac.Logout(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, cached())
}
