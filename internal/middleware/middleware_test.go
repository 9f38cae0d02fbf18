package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/glasspos/internal/auth"
	"github.com/mmynk/glasspos/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(m *auth.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	authed := r.Group("/", RequireAuth(m))
	authed.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentClaims(c).Username)
	})
	authed.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAuthAndRole(t *testing.T) {
	m := auth.NewJWTManager("secret", time.Hour)
	admin, _ := m.Generate(&models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
	staff, _ := m.Generate(&models.User{ID: 2, Username: "staff", Role: models.RoleStaff})
	r := newRouter(m)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
		body   string
	}{
		{"no header", "/me", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/me", "Basic " + admin, http.StatusUnauthorized, ""},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized, ""},
		{"staff me", "/me", "Bearer " + staff, http.StatusOK, "staff"},
		{"lowercase scheme", "/me", "bearer " + admin, http.StatusOK, "admin"},
		{"staff admin route", "/admin", "Bearer " + staff, http.StatusForbidden, ""},
		{"admin admin route", "/admin", "Bearer " + admin, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
