package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps taxonomy errors to HTTP statuses. Anything unclassified
// is a store failure and surfaces as a generic 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	}
	c.JSON(status, response.Error(status, err.Error()))
}

// mustIdentity returns the authenticated identity or aborts with 401.
// Handlers behind RequireAuth/RequireAdmin should never hit the abort path.
func mustIdentity(c *gin.Context) (*middleware.Identity, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Identity not found in context"))
		return nil, false
	}
	return identity, true
}
