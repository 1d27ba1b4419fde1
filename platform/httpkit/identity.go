package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserID returns the authenticated user's id set by AuthRequired.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// MustGetUserID returns the authenticated user's id, or aborts with 401 and
// returns false.
func MustGetUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}
