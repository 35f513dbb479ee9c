package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizledger/internal/access"
	"bizledger/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testSecret = []byte("middleware-secret")

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return s
}

// storedRoles stands in for the user table
type storedRoles map[string]string

func (r storedRoles) RoleOf(_ context.Context, username string) (string, error) {
	role, ok := r[username]
	if !ok {
		return "", apperr.NotFound("users", username)
	}
	return role, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	return newTestRouterWith(t, storedRoles{"alice": "user", "bob": "user", "root": "admin"})
}

func newTestRouterWith(t *testing.T, roles RoleSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := NewAuth(testSecret, roles, zaptest.NewLogger(t))
	r := gin.New()
	r.GET("/any", auth.Authenticate(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUsername)+":"+c.GetString(CtxRole))
	})
	r.GET("/admin", auth.RequireModule(access.Users), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenSources(t *testing.T) {
	r := newTestRouter(t)
	token := sign(t, jwt.MapClaims{"sub": "alice", "role": "user", "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice:user", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/any", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/any?token="+token, nil)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/any", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRejectsBadTokens(t *testing.T) {
	r := newTestRouter(t)

	cases := map[string]string{
		"expired":    sign(t, jwt.MapClaims{"sub": "alice", "role": "user", "exp": time.Now().Add(-time.Minute).Unix()}),
		"no expiry":  sign(t, jwt.MapClaims{"sub": "alice", "role": "user"}),
		"no role":    sign(t, jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(time.Hour).Unix()}),
		"no subject": sign(t, jwt.MapClaims{"role": "user", "exp": time.Now().Add(time.Hour).Unix()}),
	}
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("someone-else"))
	require.NoError(t, err)
	cases["wrong secret"] = other

	for name, token := range cases {
		req := httptest.NewRequest(http.MethodGet, "/any", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code, name)
	}
}

func TestRequireModule(t *testing.T) {
	r := newTestRouter(t)
	exp := time.Now().Add(time.Hour).Unix()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{"sub": "bob", "role": "user", "exp": exp}))
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{"sub": "root", "role": "admin", "exp": exp}))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestStoredRoleWinsOverClaim(t *testing.T) {
	roles := storedRoles{"root": "user"}
	r := newTestRouterWith(t, roles)
	token := sign(t, jwt.MapClaims{"sub": "root", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "root:user", w.Body.String())

	delete(roles, "root")
	req = httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}
