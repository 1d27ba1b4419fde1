package maps

import (
	"context"
	"errors"
	"net/http"

	"laundry_backend/internal/resolver"
	"laundry_backend/internal/search"
	"laundry_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgManualEntry = "address unknown, please enter manually"
	msgSuperseded  = "superseded by a newer request"
)

// PlaceResolver resolves a selected prediction.
type PlaceResolver interface {
	ResolvePlace(ctx context.Context, placeID string) (*resolver.AddressComponents, error)
}

// Handler exposes the address resolution endpoints.
type Handler struct {
	tracker *resolver.Tracker
	places  PlaceResolver
	search  *search.Service
}

func NewHandler(tracker *resolver.Tracker, places PlaceResolver, searchSvc *search.Service) *Handler {
	return &Handler{tracker: tracker, places: places, search: searchSvc}
}

// Reverse handles GET /api/v1/maps/reverse?lat=..&lng=..&session=..
func (h *Handler) Reverse(c *gin.Context) {
	var req ReverseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'lat' and 'lng' are required", nil)
		return
	}

	session := req.Session
	if session == "" {
		session = uuid.NewString()
	}

	record, err := h.tracker.Resolve(c.Request.Context(), sessionKey(c, session), *req.Lat, *req.Lng)
	if errors.Is(err, resolver.ErrSuperseded) {
		httpkit.Error(c, http.StatusConflict, msgSuperseded, nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}
	if record == nil {
		httpkit.Error(c, http.StatusNotFound, msgManualEntry, nil)
		return
	}
	httpkit.OK(c, record)
}

// Autocomplete handles GET /api/v1/maps/autocomplete?q=..&session=..
func (h *Handler) Autocomplete(c *gin.Context) {
	var req AutocompleteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'session' is required", nil)
		return
	}

	result, err := h.search.Search(c.Request.Context(), sessionKey(c, req.Session), req.Query)
	if errors.Is(err, resolver.ErrSuperseded) {
		httpkit.Error(c, http.StatusConflict, msgSuperseded, nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, AutocompleteResponse{
		Token:       result.Token,
		Query:       result.Query,
		Predictions: result.Predictions,
	})
}

// Place handles GET /api/v1/maps/places/:placeId
func (h *Handler) Place(c *gin.Context) {
	record, err := h.places.ResolvePlace(c.Request.Context(), c.Param("placeId"))
	if httpkit.HandleError(c, err) {
		return
	}
	if record == nil {
		httpkit.Error(c, http.StatusNotFound, msgManualEntry, nil)
		return
	}
	httpkit.OK(c, record)
}

// sessionKey scopes client-chosen session ids to the authenticated user.
func sessionKey(c *gin.Context, session string) string {
	if userID, ok := httpkit.UserID(c); ok {
		return userID.String() + ":" + session
	}
	return session
}
