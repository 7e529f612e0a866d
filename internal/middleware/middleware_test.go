package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func adminRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logging.Discard()))
	r.GET("/admin", AuthMiddleware(secret), RequireRole("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetUint(ContextUserID)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := adminRouter()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong key", "Bearer " + signed(t, jwt.MapClaims{"sub": 1, "role": "admin"}, "other"), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, jwt.MapClaims{"sub": 1, "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}, secret), http.StatusUnauthorized},
		{"no subject", "Bearer " + signed(t, jwt.MapClaims{"role": "admin"}, secret), http.StatusUnauthorized},
		{"not admin", "Bearer " + signed(t, jwt.MapClaims{"sub": 1, "role": "viewer"}, secret), http.StatusForbidden},
		{"admin", "Bearer " + signed(t, jwt.MapClaims{"sub": 7, "role": "admin"}, secret), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/bot", APIKeyMiddleware("bot-key"), func(c *gin.Context) { c.Status(http.StatusOK) })

	for key, status := range map[string]int{
		"":        http.StatusUnauthorized,
		"nope":    http.StatusUnauthorized,
		"bot-key": http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodGet, "/bot", nil)
		req.Header.Set("x-api-key", key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, "key %q", key)
	}
}

func TestAPIKeyMiddleware_EmptyConfiguredKeyRejectsAll(t *testing.T) {
	r := gin.New()
	r.GET("/bot", APIKeyMiddleware(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/bot", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://admin.clinic.uz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.clinic.uz", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}

func TestCORSAllowlist(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://admin.clinic.uz/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for origin, want := range map[string]string{
		"https://admin.clinic.uz": "https://admin.clinic.uz",
		"https://evil.example":    "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, w.Header().Get("Access-Control-Allow-Origin"), "origin %s", origin)
	}
}

func TestAuthErrorsUseErrorBody(t *testing.T) {
	r := adminRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error_code":"missing_authorization_header"}`, w.Body.String())
}
