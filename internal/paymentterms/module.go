// Package paymentterms previews payment conditions over HTTP.
package paymentterms

import (
	apphttp "serveon_backend/internal/http"
	"serveon_backend/internal/paymentterms/handler"
	"serveon_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(val *validator.Validator) *Module {
	return &Module{handler: handler.New(val)}
}

func (m *Module) Name() string {
	return "paymentterms"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/payment-terms"))
}

var _ apphttp.Module = (*Module)(nil)
