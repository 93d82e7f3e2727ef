package oauth

import (
	"context"
	"net/http"

	"github.com/prperemyshlev/oauth-broker/internal/config"
	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"golang.org/x/oauth2"
)

type xeroConnection struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	TenantType string `json:"tenantType"`
	TenantName string `json:"tenantName"`
}

// NewXero creates the Xero provider. Client credentials go in the
// Authorization header and the flow starts from the user id alone.
func NewXero(cfg config.ProviderConfig, httpClient *http.Client) Provider {
	p := newProvider(domain.ProviderXero, cfg, oauth2.AuthStyleInHeader, httpClient)
	p.profile = xeroProfile
	return p
}

// xeroProfile links the first authorized organisation. A user with no
// connections yet is stored without tenant details.
func xeroProfile(ctx context.Context, p *provider, tok *oauth2.Token, _ CallbackParams) (*domain.AccountLink, error) {
	var connections []xeroConnection
	if err := p.getJSON(ctx, tok, p.userInfoURL, &connections); err != nil {
		return nil, err
	}

	link := &domain.AccountLink{}
	if len(connections) > 0 {
		link.TenantID = connections[0].TenantID
		link.TenantName = connections[0].TenantName
	}

	return link, nil
}
