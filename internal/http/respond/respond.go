// Package respond owns the response envelope. Every handler output passes
// through these constructors so the whole API keeps one JSON shape family:
// {success:true, data, meta?} on success, {success:false, error:{message}}
// on failure.
package respond

import (
	"log"
	"net/http"

	"crmbackend/internal/domain"

	"github.com/gin-gonic/gin"
)

// requestIDKey matches the gin context key set by the RequestID middleware.
const requestIDKey = "request_id"

// OK writes a 200 success envelope.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// OKList writes a 200 success envelope with pagination meta.
func OKList(c *gin.Context, data any, meta domain.ListMeta) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "meta": meta})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// Deleted writes the fixed delete acknowledgement.
func Deleted(c *gin.Context, id int64) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": id, "deleted": true}})
}

// Error writes a failure envelope with the given status. request_id is
// echoed when the middleware has set one.
func Error(c *gin.Context, status int, message string) {
	payload := gin.H{
		"success": false,
		"error":   gin.H{"message": message},
	}
	if rid := c.GetString(requestIDKey); rid != "" {
		payload["request_id"] = rid
	}
	c.AbortWithStatusJSON(status, payload)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func ValidationErr(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Internal hides the failure detail from the caller; the original error is
// only logged server-side.
func Internal(c *gin.Context, err error) {
	if err != nil {
		log.Printf("[INTERNAL] request_id=%s path=%s err=%v", c.GetString(requestIDKey), c.FullPath(), err)
	}
	Error(c, http.StatusInternalServerError, "something went wrong")
}

// DomainError maps typed domain errors to HTTP statuses. Handlers never
// inspect error strings; the kind decides the status.
func DomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		Error(c, http.StatusBadRequest, err.Error())
	case domain.IsUnauthorized(err):
		Error(c, http.StatusUnauthorized, err.Error())
	case domain.IsForbidden(err):
		Error(c, http.StatusForbidden, err.Error())
	case domain.IsNotFound(err):
		Error(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		Error(c, http.StatusConflict, err.Error())
	default:
		Internal(c, err)
	}
}
