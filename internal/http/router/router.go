// Package router builds the gin engine from an App.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "serveon_backend/internal/http"
	"serveon_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const healthTimeout = 2 * time.Second

// New creates the engine, applies the global middleware chain and lets
// every module mount its routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(app.Config.GetRateLimitRPS()), app.Config.GetRateLimitBurst(), app.Logger)
	engine.Use(limiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		if app.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := app.Health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := httpkit.AnonymousIdentity()
	if app.Config.IsAuthEnabled() {
		auth = httpkit.AuthRequired(app.Config)
	} else {
		app.Logger.Warn("JWT_ACCESS_SECRET not configured; running in single-user mode")
	}

	v1 := engine.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(auth)
	admin := protected.Group("/admin")
	admin.Use(requireRole(httpkit.RoleAdmin))

	rc := &apphttp.RouterContext{Protected: protected, Admin: admin}
	for _, module := range app.Modules {
		module.RegisterRoutes(rc)
		app.Logger.Debug("module registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Disposition", httpkit.HeaderRequestID, httpkit.HeaderExportRows},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !httpkit.GetIdentity(c).HasRole(role) {
			httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
			return
		}
		c.Next()
	}
}
