package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"reviewhub/internal/models"
	"reviewhub/internal/service"
)

// mockAuth is a stub AuthService; only ValidateToken matters here.
type mockAuth struct {
	claims *service.Claims
	err    error
}

func (m *mockAuth) Signup(ctx context.Context, username, email string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAuth) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockAuth) ValidateToken(tokenString string) (*service.Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func setupProtected(authService service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(authService), func(c *gin.Context) {
		claims, _ := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return r
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := setupProtected(&mockAuth{})

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := setupProtected(&mockAuth{})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r := setupProtected(&mockAuth{err: service.ErrInvalidToken})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	claims := &service.Claims{UserID: "user-1", Username: "alice", Role: models.RoleUser}
	r := setupProtected(&mockAuth{claims: claims})

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(claims *service.Claims) int {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			c.Set(claimsKey, claims)
		}, RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		req, _ := http.NewRequest("GET", "/admin", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, run(&service.Claims{Role: models.RoleAdmin}))
	assert.Equal(t, http.StatusOK, run(&service.Claims{Role: models.RoleUser, Superuser: true}))
	assert.Equal(t, http.StatusForbidden, run(&service.Claims{Role: models.RoleModerator}))
	assert.Equal(t, http.StatusForbidden, run(&service.Claims{Role: models.RoleUser}))
}
