package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString("userId"),
			"email":  c.GetString("email"),
			"role":   c.GetString("role"),
		})
	})
	router.GET("/admin", AuthRequired(), AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAuthRequiredValidToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := IssueToken("507f1f77bcf86cd799439011", "Someone", "someone@example.com", "user", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "507f1f77bcf86cd799439011", resp["userId"])
	assert.Equal(t, "someone@example.com", resp["email"])
	assert.Equal(t, "user", resp["role"])
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredMalformedHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abcdef")
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredGarbageToken(t *testing.T) {
	SetSecret("test-secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := IssueToken("507f1f77bcf86cd799439011", "Someone", "someone@example.com", "user", -time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredWrongSecret(t *testing.T) {
	SetSecret("secret-one")
	token, err := IssueToken("507f1f77bcf86cd799439011", "Someone", "someone@example.com", "user", time.Hour)
	require.NoError(t, err)

	SetSecret("secret-two")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	SetSecret("test-secret")

	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin passes", "admin", http.StatusOK},
		{"user is forbidden, not unauthorized", "user", http.StatusForbidden},
		{"empty role is forbidden", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := IssueToken("507f1f77bcf86cd799439011", "Someone", "someone@example.com", tt.role, time.Hour)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			newTestRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
