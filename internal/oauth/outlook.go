package oauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/prperemyshlev/oauth-broker/internal/config"
	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"golang.org/x/oauth2"
)

type graphUser struct {
	ID                string `json:"id"`
	UserPrincipalName string `json:"userPrincipalName"`
	DisplayName       string `json:"displayName"`
	GivenName         string `json:"givenName"`
	Surname           string `json:"surname"`
}

// NewOutlook creates the Microsoft identity platform provider.
// The token request repeats the scope, which the v2.0 endpoint expects.
func NewOutlook(cfg config.ProviderConfig, httpClient *http.Client) Provider {
	p := newProvider(domain.ProviderOutlook, cfg, oauth2.AuthStyleInParams, httpClient)
	p.authOpts = []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("response_mode", "query")}
	p.exchangeOpts = []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("scope", strings.Join(cfg.Scopes, " "))}
	p.requiresHash = true
	p.echoState = true
	p.profile = outlookProfile
	return p
}

func outlookProfile(ctx context.Context, p *provider, tok *oauth2.Token, _ CallbackParams) (*domain.AccountLink, error) {
	var me graphUser
	if err := p.getJSON(ctx, tok, p.userInfoURL, &me); err != nil {
		return nil, err
	}
	if me.ID == "" {
		return nil, fmt.Errorf("outlook profile: missing id")
	}

	return &domain.AccountLink{
		ProviderUserID: me.ID,
		Email:          me.UserPrincipalName,
		DisplayName:    me.DisplayName,
		GivenName:      me.GivenName,
		FamilyName:     me.Surname,
	}, nil
}
