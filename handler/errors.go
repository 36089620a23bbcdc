package handler

import (
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"net/http"
	"shortdrama/service"
)

const (
	codeInvalidRequest     = "invalid_request"
	codeUnauthorized       = "unauthorized"
	codeAdminUnauthorized  = "admin_unauthorized"
	codeWorkerUnauthorized = "worker_unauthorized"
	codeRateLimited        = "rate_limited"
	codeStorageUnavailable = "storage_unavailable"
	codeInternal           = "internal_error"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrRule):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeError renders err as {error, hint?, ...details}. Anything that is not a
// domain error is logged and hidden behind internal_error.
func writeError(c *gin.Context, err error) {
	var domainErr *service.Error
	if errors.As(err, &domainErr) {
		body := gin.H{}
		for k, v := range domainErr.Details {
			body[k] = v
		}
		body["error"] = domainErr.Code
		if domainErr.Hint != "" {
			body["hint"] = domainErr.Hint
		}
		c.AbortWithStatusJSON(statusFor(err), body)
		return
	}

	if errors.Is(err, service.ErrStorageUnavailable) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": codeStorageUnavailable})
		return
	}

	zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": codeInternal})
}

func writeBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": codeInvalidRequest, "hint": err.Error()})
}

func writeCode(c *gin.Context, status int, code string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code})
}
