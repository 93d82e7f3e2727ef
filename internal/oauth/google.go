package oauth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prperemyshlev/oauth-broker/internal/config"
	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"golang.org/x/oauth2"
)

type googleUserInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// NewGoogle creates the Google provider. Offline access with forced consent
// makes Google return a refresh token on every connect.
func NewGoogle(cfg config.ProviderConfig, httpClient *http.Client) Provider {
	p := newProvider(domain.ProviderGoogle, cfg, oauth2.AuthStyleInParams, httpClient)
	p.authOpts = []oauth2.AuthCodeOption{oauth2.AccessTypeOffline, oauth2.ApprovalForce}
	p.requiresHash = true
	p.echoState = true
	p.profile = googleProfile
	return p
}

func googleProfile(ctx context.Context, p *provider, tok *oauth2.Token, _ CallbackParams) (*domain.AccountLink, error) {
	var info googleUserInfo
	if err := p.getJSON(ctx, tok, p.userInfoURL, &info); err != nil {
		return nil, err
	}
	if info.ID == "" {
		return nil, fmt.Errorf("google userinfo: missing id")
	}

	return &domain.AccountLink{
		ProviderUserID: info.ID,
		Email:          info.Email,
		GivenName:      info.GivenName,
		FamilyName:     info.FamilyName,
		Picture:        info.Picture,
	}, nil
}
