package http

import (
	"context"

	"serveon_backend/platform/config"
	"serveon_backend/platform/logger"
)

type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
	config.RateLimitConfig
}

// HealthChecker backs GET /api/health. db.Pinger is the production one.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is what cmd/api hands to router.New.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health may be nil, in which case the server always reports ok.
	Health  HealthChecker
	Modules []Module
}
