// Package records serves the master-data lists: CRUD, filtered and
// favorite-sorted listings, CSV export and per-user favorites.
package records

import (
	apphttp "serveon_backend/internal/http"
	"serveon_backend/internal/records/handler"
	"serveon_backend/internal/records/repository"
	"serveon_backend/internal/records/service"
	"serveon_backend/platform/kvstore"
	"serveon_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, kv *kvstore.Safe, exports service.ExportRecorder, val *validator.Validator) (*Module, error) {
	svc := service.New(repository.New(pool), kv, exports)
	h, err := handler.New(svc, val)
	if err != nil {
		return nil, err
	}
	return &Module{handler: h, service: svc}, nil
}

// Service is shared with the dashboard for record counts.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "records"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/records"), ctx.Protected.Group("/favorites"))
}

var _ apphttp.Module = (*Module)(nil)
