// Package navsearch exposes the navigation search over HTTP.
package navsearch

import (
	apphttp "serveon_backend/internal/http"
	"serveon_backend/internal/navsearch/engine"
	"serveon_backend/internal/navsearch/handler"
	"serveon_backend/internal/navsearch/service"
	"serveon_backend/platform/config"
	"serveon_backend/platform/kvstore"
	"serveon_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(catalog []engine.Item, kv *kvstore.Safe, cfg config.SearchConfig, val *validator.Validator) *Module {
	svc := service.New(catalog, kv, cfg)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Service is shared with the dashboard, which reports the top destinations.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "navsearch"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/navigation")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
