package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"laundry_backend/internal/addresses/service"
	"laundry_backend/internal/addresses/transport"
	"laundry_backend/platform/httpkit"
	"laundry_backend/platform/validator"
)

// Handler handles HTTP requests for the address book.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid address id"
)

// New creates a new address book handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns the caller's saved addresses.
// GET /api/v1/addresses
func (h *Handler) List(c *gin.Context) {
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get returns one saved address.
// GET /api/v1/addresses/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), userID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create saves a confirmed address.
// POST /api/v1/addresses
func (h *Handler) Create(c *gin.Context) {
	var req transport.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, err)
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.svc.Save(c.Request.Context(), userID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Delete removes a saved address.
// DELETE /api/v1/addresses/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	userID, ok := httpkit.MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
