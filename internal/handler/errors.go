package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"github.com/prperemyshlev/oauth-broker/internal/dto"
	"github.com/prperemyshlev/oauth-broker/internal/service"
)

// statusFor maps service errors to an HTTP status and a client-facing message
func statusFor(err error) (int, string) {
	var lookupErr *service.LookupError

	switch {
	case errors.As(err, &lookupErr):
		return lookupErr.Result.StatusCode, lookupErr.Result.Message
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrUnknownProvider):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrProviderDenied):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrStateExpired),
		errors.Is(err, domain.ErrStateReplayed),
		errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest, "Invalid or expired state"
	case errors.Is(err, domain.ErrProviderTimeout):
		return http.StatusGatewayTimeout, "Provider did not respond in time"
	case errors.Is(err, domain.ErrProviderExchange):
		return http.StatusBadGateway, "Provider exchange failed"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, "Failed to save account link"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func writeError(c *gin.Context, err error) {
	status, message := statusFor(err)
	c.JSON(status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
