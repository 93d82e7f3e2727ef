package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/oauth-broker/internal/dto"
	"github.com/prperemyshlev/oauth-broker/internal/service"
)

// OAuthHandler handles the provider connect flow
type OAuthHandler struct {
	oauthService service.OAuthService
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(oauthService service.OAuthService) *OAuthHandler {
	return &OAuthHandler{
		oauthService: oauthService,
	}
}

// Start redirects the browser to the provider consent page
// @Summary Start provider connect
// @Description Verify the user and redirect to the provider authorization page
// @Tags auth
// @Param provider path string true "google, outlook, xero or quickbooks"
// @Param user_id query string true "Application user id"
// @Param user_hash query string false "User hash, required for google, outlook and quickbooks"
// @Param state query string false "Combined <user_id>/<user_hash>"
// @Success 302
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /auth/{provider} [get]
func (h *OAuthHandler) Start(c *gin.Context) {
	var req dto.StartAuthRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	authURL, err := h.oauthService.Begin(c.Request.Context(), providerFromContext(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// Callback completes the connect flow
// @Summary Provider callback
// @Description Exchange the authorization code, store the account link and redirect to the frontend
// @Tags auth
// @Param provider path string true "google, outlook, xero or quickbooks"
// @Param code query string true "Authorization code"
// @Param state query string true "State issued at start"
// @Param realmId query string false "QuickBooks company id"
// @Success 302
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/{provider}/callback [get]
func (h *OAuthHandler) Callback(c *gin.Context) {
	var req dto.CallbackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	redirectURL, err := h.oauthService.Complete(c.Request.Context(), providerFromContext(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusFound, redirectURL)
}
