package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking-backend/pkg/jwt"
)

const testSecret = "test-secret-key-for-middleware"

func adminRouter(manager *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/admin/ping",
		AuthMiddleware(manager),
		AdminMiddleware(),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"user_id": c.GetString("user_id"),
				"role":    c.GetString("role"),
			})
		},
	)
	return r
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := adminRouter(jwt.NewManager(testSecret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_001")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := adminRouter(jwt.NewManager(testSecret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_001")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r := adminRouter(jwt.NewManager(testSecret))

	// Signed with a different secret.
	other := jwt.NewManager("some-other-secret")
	token, err := other.GenerateAccessToken("u1", "ops@example.com", "admin", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_002")
}

func TestAuthMiddleware_ValidAdminTokenPassesClaims(t *testing.T) {
	manager := jwt.NewManager(testSecret)
	r := adminRouter(manager)

	token, err := manager.GenerateAccessToken("u1", "ops@example.com", "admin", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestAdminMiddleware_NonAdminRoleForbidden(t *testing.T) {
	manager := jwt.NewManager(testSecret)
	r := adminRouter(manager)

	token, err := manager.GenerateAccessToken("u2", "user@example.com", "customer", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_003")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	manager := jwt.NewManager(testSecret)
	r := adminRouter(manager)

	token, err := manager.GenerateAccessToken("u1", "ops@example.com", "admin", -time.Minute)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_002")
}
