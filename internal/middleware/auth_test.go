package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/recipe-api/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (v *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func newAuthTestRouter(validator TokenValidator) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	var captured uuid.UUID

	router := gin.New()
	router.Use(AuthMiddleware(validator))
	router.GET("/protected", func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		captured = id
		c.Status(http.StatusOK)
	})
	return router, &captured
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router, _ := newAuthTestRouter(&stubValidator{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router, _ := newAuthTestRouter(&stubValidator{})

	for _, header := range []string{"token-without-scheme", "Basic abc", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router, _ := newAuthTestRouter(&stubValidator{err: errors.New("invalid token")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsUserID(t *testing.T) {
	userID := uuid.New()
	router, captured := newAuthTestRouter(&stubValidator{claims: &types.TokenClaims{UserID: userID}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *captured)
}
