package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/oauth-broker/internal/oauth"
)

const providerKey = "provider"

// ProviderMiddleware resolves the :provider path parameter and adds the provider to context
func ProviderMiddleware(registry *oauth.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider, err := registry.Lookup(c.Param("provider"))
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}

		c.Set(providerKey, provider)
		c.Next()
	}
}

func providerFromContext(c *gin.Context) oauth.Provider {
	provider, _ := c.MustGet(providerKey).(oauth.Provider)
	return provider
}
