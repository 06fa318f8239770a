package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellermetrics/leadstack-go/internal/domain/users"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/security"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError + 4,
	})
	require.NoError(t, err)
	return logger
}

func newAuthRouter(t *testing.T, adminOnly bool) *gin.Engine {
	t.Helper()
	logger := newTestLogger(t)

	r := gin.New()
	chain := []gin.HandlerFunc{AuthMiddleware(logger)}
	if adminOnly {
		chain = append(chain, AdminOnlyMiddleware(logger))
	}
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/protected", chain...)
	return r
}

func issueToken(t *testing.T, userID string, isAdmin bool) string {
	t.Helper()
	token, err := security.GenerateAccessToken(&users.User{
		ID:      userID,
		Email:   "user@example.com",
		Name:    "Test User",
		IsAdmin: isAdmin,
	}, config.JWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_ValidTokenSetsIdentity(t *testing.T) {
	logger := newTestLogger(t)

	var gotUserID string
	var gotIsAdmin bool
	r := gin.New()
	r.GET("/protected", AuthMiddleware(logger), func(c *gin.Context) {
		gotUserID = UserID(c)
		gotIsAdmin = IsAdmin(c)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "user-123", false))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-123", gotUserID)
	assert.False(t, gotIsAdmin)
}

func TestAuthMiddleware_MissingTokenIs401(t *testing.T) {
	r := newAuthRouter(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedTokenIs401(t *testing.T) {
	r := newAuthRouter(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnlyMiddleware_RejectsNonAdmin(t *testing.T) {
	r := newAuthRouter(t, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "user-123", false))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminOnlyMiddleware_AllowsAdmin(t *testing.T) {
	r := newAuthRouter(t, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, "admin-1", true))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
