package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apphttp "serveon_backend/internal/http"
	"serveon_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type routerConfig struct {
	secret string
}

func (c routerConfig) GetHTTPAddr() string        { return ":0" }
func (c routerConfig) GetCORSAllowAll() bool      { return false }
func (c routerConfig) GetCORSOrigins() []string   { return []string{"http://localhost:5173"} }
func (c routerConfig) GetCORSAllowCreds() bool    { return true }
func (c routerConfig) GetJWTAccessSecret() string { return c.secret }
func (c routerConfig) IsAuthEnabled() bool        { return c.secret != "" }
func (c routerConfig) GetRateLimitRPS() float64   { return 1000 }
func (c routerConfig) GetRateLimitBurst() int     { return 1000 }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	ctx.Admin.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "admin pong") })
}

type health struct{ err error }

func (h health) Ping(context.Context) error { return h.err }

func newEngine(cfg routerConfig, h apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  cfg,
		Logger:  logger.Discard(),
		Health:  h,
		Modules: []apphttp.Module{pingModule{}},
	})
}

func get(e *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	if w := get(newEngine(routerConfig{}, health{}), "/api/health"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := get(newEngine(routerConfig{}, health{err: errors.New("down")}), "/api/health"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestSingleUserModeOpensEveryGroup(t *testing.T) {
	e := newEngine(routerConfig{}, nil)
	if w := get(e, "/api/v1/ping"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := get(e, "/api/v1/admin/ping"); w.Code != http.StatusOK {
		t.Fatalf("expected admin 200, got %d", w.Code)
	}
}

func TestAuthEnabledRequiresToken(t *testing.T) {
	e := newEngine(routerConfig{secret: "s3cret"}, nil)
	if w := get(e, "/api/v1/ping"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	w := get(newEngine(routerConfig{}, nil), "/api/health")
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing security headers")
	}
}

func TestCORSExposesDownloadHeaders(t *testing.T) {
	e := newEngine(routerConfig{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	exposed := strings.ToLower(w.Header().Get("Access-Control-Expose-Headers"))
	for _, h := range []string{"content-disposition", "x-export-rows", "x-request-id"} {
		if !strings.Contains(exposed, h) {
			t.Fatalf("%s not exposed in %q", h, exposed)
		}
	}
}
