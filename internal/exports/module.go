// Package exports archives CSV exports to object storage and keeps a log of them.
package exports

import (
	apphttp "serveon_backend/internal/http"
	"serveon_backend/platform/logger"
	"serveon_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates the exports module. archiver may be NopArchiver{}.
func NewModule(pool *pgxpool.Pool, archiver Archiver, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(archiver, NewRepository(pool), log)
	return &Module{handler: NewHandler(svc, val), service: svc}
}

// Service is handed to the records module, which records its downloads here.
func (m *Module) Service() *Service {
	return m.service
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts the export log on the admin group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/exports", m.handler.ListRecent)
}

var _ apphttp.Module = (*Module)(nil)
