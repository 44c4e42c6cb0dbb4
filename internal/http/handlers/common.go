package handlers

import (
	"strconv"
	"strings"

	"crmbackend/internal/domain"
	"crmbackend/internal/http/middleware"
	"crmbackend/internal/http/respond"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respond.ValidationErr(c, "request body is required")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respond.ValidationErr(c, "invalid request payload")
		return false
	}
	return true
}

// IDParam parses the :id path segment.
func IDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.ValidationErr(c, "invalid id")
		return 0, false
	}
	return id, true
}

// ScopedLocation resolves the location_id query param and checks the caller
// may access it. Every location-scoped handler runs this right after the
// gate.
func ScopedLocation(c *gin.Context) (string, bool) {
	locationID := strings.TrimSpace(c.Query("location_id"))
	if locationID == "" {
		respond.ValidationErr(c, "location_id parameter is required")
		return "", false
	}
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		respond.Error(c, 401, "no caller on context")
		return "", false
	}
	if !domain.CanAccessLocation(caller, locationID) {
		respond.Error(c, 403, "location not accessible")
		return "", false
	}
	return locationID, true
}
