// Package addresses provides the address book module: confirmed addresses a
// customer can pick at checkout.
package addresses

import (
	"laundry_backend/internal/addresses/handler"
	"laundry_backend/internal/addresses/repository"
	"laundry_backend/internal/addresses/service"
	"laundry_backend/internal/gazetteer"
	apphttp "laundry_backend/internal/http"
	"laundry_backend/platform/config"
	"laundry_backend/platform/logger"
	"laundry_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the address book module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the address book module.
func NewModule(pool *pgxpool.Pool, store *gazetteer.Store, val *validator.Validator, cfg config.AddressBookConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, val, cfg.GetPhoneRegion(), log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "addresses"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts address book routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/addresses")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
	group.POST("", m.handler.Create)
	group.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
