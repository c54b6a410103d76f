package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jokehub/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *token.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := token.NewService("test-secret", "jokehub", "jokehub-web",
		time.Hour, token.NewMemoryRevocationStore())
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api")
	api.Use(RequireAuth(tokens))
	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(CtxUserID),
			"role":    c.GetString(CtxRole),
		})
	})

	return r, tokens
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r, tokens := setupRouter(t)

	tok, err := tokens.Generate("user-1", "a@b.c", "A", "user", "google")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	r, tokens := setupRouter(t)

	tok, err := tokens.Generate("user-1", "a@b.c", "A", "user", "google")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: token.CookieName, Value: tok})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
