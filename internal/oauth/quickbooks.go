package oauth

import (
	"context"
	"net/http"

	"github.com/prperemyshlev/oauth-broker/internal/config"
	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"golang.org/x/oauth2"
)

type intuitUserInfo struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

// NewQuickBooks creates the Intuit QuickBooks provider. The company id
// arrives as the realmId callback parameter.
func NewQuickBooks(cfg config.ProviderConfig, httpClient *http.Client) Provider {
	p := newProvider(domain.ProviderQuickBooks, cfg, oauth2.AuthStyleInHeader, httpClient)
	p.requiresHash = true
	p.needsRealm = true
	p.profile = quickBooksProfile
	return p
}

func quickBooksProfile(ctx context.Context, p *provider, tok *oauth2.Token, params CallbackParams) (*domain.AccountLink, error) {
	var info intuitUserInfo
	if err := p.getJSON(ctx, tok, p.userInfoURL, &info); err != nil {
		return nil, err
	}

	return &domain.AccountLink{
		ProviderUserID: info.Sub,
		RealmID:        params.RealmID,
		Email:          info.Email,
		GivenName:      info.GivenName,
		FamilyName:     info.FamilyName,
	}, nil
}
