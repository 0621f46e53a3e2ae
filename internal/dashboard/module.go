// Package dashboard serves the back-office landing page figures.
package dashboard

import (
	apphttp "serveon_backend/internal/http"
)

type Module struct {
	handler *Handler
}

func NewModule(counter Counter, visits VisitReader) *Module {
	return &Module{handler: NewHandler(NewService(counter, visits))}
}

func (m *Module) Name() string {
	return "dashboard"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/dashboard", m.handler.Get)
}

var _ apphttp.Module = (*Module)(nil)
