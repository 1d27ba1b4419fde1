// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"errors"
	"net/http"

	"laundry_backend/platform/apperr"
	"laundry_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// ValidationFailed sends a 400 listing the failed fields of a validator error.
func ValidationFailed(c *gin.Context, err error) {
	fields := validator.Fields(err)
	if fields == nil {
		Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	Error(c, http.StatusBadRequest, "validation failed", fields)
}

// statusClientClosedRequest is the nginx convention for a request abandoned
// by the client.
const statusClientClosedRequest = 499

// HandleError maps domain errors to HTTP responses.
// If the error chain holds an *apperr.Error, its Kind determines the HTTP
// status code. Otherwise, it defaults to 500 without leaking the message.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	// The client went away; there is nobody to answer and nothing to log.
	if errors.Is(err, context.Canceled) {
		c.AbortWithStatus(statusClientClosedRequest)
		return true
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		if apperr.Retryable(domainErr) {
			c.Header("Retry-After", "1")
		}
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	return true
}
