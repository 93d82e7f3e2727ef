package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/oauth-broker/internal/dto"
	"github.com/prperemyshlev/oauth-broker/internal/service"
)

// StatusHandler serves onboarding status lookups
type StatusHandler struct {
	userService service.UserService
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(userService service.UserService) *StatusHandler {
	return &StatusHandler{
		userService: userService,
	}
}

// Status returns the onboarding fields of a user
// @Summary Get onboarding status
// @Tags auth
// @Produce json
// @Param user_id query string false "User id (UUID)"
// @Param session_id query string false "User hash"
// @Success 200 {object} dto.StatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.userService.GetStatus(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
