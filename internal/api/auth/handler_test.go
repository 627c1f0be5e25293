package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gallery-app/config"
	"gallery-app/database"
	usersapi "gallery-app/internal/api/users"
	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JWT_SECRET = "test-secret"
	require.NoError(t, database.Connect("sqlite", filepath.Join(t.TempDir(), "auth.db"), "en"))
	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.EnsureAdmin("admin@example.com", "secret123"))
	// idempotent
	require.NoError(t, database.EnsureAdmin("admin@example.com", "other"))

	r := gin.New()
	r.POST("/login", Login)
	r.POST("/change-password", middleware.AuthMiddleware(), ChangePassword)
	r.GET("/me", middleware.AuthMiddleware(), usersapi.GetCurrentUser)
	r.GET("/admin", middleware.AuthMiddleware(), middleware.RequireRole(users.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func post(r *gin.Engine, target, token string, body any) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, password string) (string, int) {
	t.Helper()
	w := post(r, "/login", "", gin.H{"email": "admin@example.com", "password": password})
	var out struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out.Token, w.Code
}

func TestLoginIssuesAdminToken(t *testing.T) {
	r := setup(t)

	_, code := login(t, r, "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	token, code := login(t, r, "secret123")
	require.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var me usersapi.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "admin@example.com", me.Email)
	assert.Equal(t, users.RoleAdmin, me.Role)
}

func TestChangePassword(t *testing.T) {
	r := setup(t)
	token, code := login(t, r, "secret123")
	require.Equal(t, http.StatusOK, code)

	w := post(r, "/change-password", token, gin.H{"old_password": "secret123", "new_password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/change-password", token, gin.H{"old_password": "nope", "new_password": "longer123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(r, "/change-password", token, gin.H{"old_password": "secret123", "new_password": "longer123"})
	require.Equal(t, http.StatusOK, w.Code)

	_, code = login(t, r, "longer123")
	assert.Equal(t, http.StatusOK, code)
}

func TestIsPasswordStrong(t *testing.T) {
	assert.True(t, isPasswordStrong("abcdefg1"))
	assert.False(t, isPasswordStrong("abcdefgh"))
	assert.False(t, isPasswordStrong("1234567"))
}
