package oauth

import (
	"net/url"
	"strings"

	"github.com/prperemyshlev/oauth-broker/internal/domain"
)

// FrontendRedirect builds the URL the browser lands on after a successful
// connect. An empty state is left out.
func FrontendRedirect(base string, provider domain.Provider, state string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}

	target := base + sep + "service=" + url.QueryEscape(provider.String()) + "&status=connected"
	if state != "" {
		target += "&state=" + url.QueryEscape(state)
	}

	return target
}
