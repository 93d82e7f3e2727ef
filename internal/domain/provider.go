package domain

import "strings"

// Provider identifies an external OAuth2 service a user can connect.
type Provider string

const (
	ProviderGoogle     Provider = "google"
	ProviderOutlook    Provider = "outlook"
	ProviderXero       Provider = "xero"
	ProviderQuickBooks Provider = "quickbooks"
)

// Providers lists every supported provider.
var Providers = []Provider{ProviderGoogle, ProviderOutlook, ProviderXero, ProviderQuickBooks}

// ParseProvider normalizes a provider name taken from a URL path.
func ParseProvider(name string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, true
		}
	}
	return "", false
}

func (p Provider) String() string {
	return string(p)
}

// AccountLink is the per-provider row linking an external account to a user.
// There is at most one link per (provider, user) pair.
type AccountLink struct {
	Provider       Provider `json:"provider"`
	UserID         string   `json:"user_id"`
	ProviderUserID string   `json:"provider_user_id,omitempty"`
	Email          string   `json:"email,omitempty"`
	DisplayName    string   `json:"display_name,omitempty"`
	GivenName      string   `json:"given_name,omitempty"`
	FamilyName     string   `json:"family_name,omitempty"`
	Picture        string   `json:"picture,omitempty"`
	TenantID       string   `json:"tenant_id,omitempty"`
	TenantName     string   `json:"tenant_name,omitempty"`
	RealmID        string   `json:"realm_id,omitempty"`
	AccessToken    string   `json:"-"`
	RefreshToken   string   `json:"-"`
	IDToken        string   `json:"-"`
}

// OAuthState is the identity threaded through the provider redirect.
type OAuthState struct {
	UserID   string
	UserHash string
}
