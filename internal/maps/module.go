// Package maps exposes address resolution over HTTP: reverse geocoding of a
// map position, place search and resolution of a selected place.
package maps

import (
	apphttp "laundry_backend/internal/http"
	"laundry_backend/internal/requesttoken"
	"laundry_backend/internal/resolver"
	"laundry_backend/internal/search"
	"laundry_backend/platform/logger"
)

// Module wires the maps HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(svc *resolver.Service, tokens requesttoken.Store, log *logger.Logger) *Module {
	tracker := resolver.NewTracker(svc, tokens)
	searchSvc := search.NewService(svc, tokens, log)
	return &Module{handler: NewHandler(tracker, svc, searchSvc)}
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/maps")
	group.GET("/reverse", m.handler.Reverse)
	group.GET("/autocomplete", m.handler.Autocomplete)
	group.GET("/places/:placeId", m.handler.Place)
}

var _ apphttp.Module = (*Module)(nil)
