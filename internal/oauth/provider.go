// Package oauth describes the external OAuth2 providers a user can connect
// and performs the authorization code round trip against them.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prperemyshlev/oauth-broker/internal/config"
	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"golang.org/x/oauth2"
)

// ErrUnexpectedStatus is returned when a provider answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected provider response status")

const errorBodyLimit = 1 << 10

// CallbackParams carries callback query values some providers need besides the code
type CallbackParams struct {
	RealmID string
}

// Provider is the descriptor and client of a single OAuth2 service
type Provider interface {
	Name() domain.Provider
	// RequiresUserHash reports whether starting the flow needs the user hash
	RequiresUserHash() bool
	AuthCodeURL(state string) string
	ValidateCallback(params CallbackParams) error
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, tok *oauth2.Token, params CallbackParams) (*domain.AccountLink, error)
	FrontendURL(state string) string
}

type profileFunc func(ctx context.Context, p *provider, tok *oauth2.Token, params CallbackParams) (*domain.AccountLink, error)

// provider is the shared implementation; each service file supplies its
// endpoints, options and profile mapping.
type provider struct {
	name         domain.Provider
	config       *oauth2.Config
	userInfoURL  string
	frontendURL  string
	authOpts     []oauth2.AuthCodeOption
	exchangeOpts []oauth2.AuthCodeOption
	requiresHash bool
	echoState    bool
	needsRealm   bool
	profile      profileFunc
	httpClient   *http.Client
}

func newProvider(name domain.Provider, cfg config.ProviderConfig, style oauth2.AuthStyle, httpClient *http.Client) *provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &provider{
		name: name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: style,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		frontendURL: cfg.FrontendURL,
		httpClient:  httpClient,
	}
}

func (p *provider) Name() domain.Provider {
	return p.name
}

func (p *provider) RequiresUserHash() bool {
	return p.requiresHash
}

func (p *provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, p.authOpts...)
}

func (p *provider) ValidateCallback(params CallbackParams) error {
	if p.needsRealm && params.RealmID == "" {
		return fmt.Errorf("%w: realmId is required", domain.ErrInvalidRequest)
	}
	return nil
}

// Exchange trades the authorization code for tokens
func (p *provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.config.Exchange(p.clientContext(ctx), code, p.exchangeOpts...)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return nil, fmt.Errorf("%s token endpoint: %w: %d", p.name, ErrUnexpectedStatus, re.Response.StatusCode)
		}
		return nil, fmt.Errorf("%s token endpoint: %w", p.name, err)
	}
	return tok, nil
}

// FetchProfile loads the account details and fills the tokens into the link
func (p *provider) FetchProfile(ctx context.Context, tok *oauth2.Token, params CallbackParams) (*domain.AccountLink, error) {
	link, err := p.profile(ctx, p, tok, params)
	if err != nil {
		return nil, err
	}

	link.Provider = p.name
	link.AccessToken = tok.AccessToken
	link.RefreshToken = tok.RefreshToken
	if idToken, ok := tok.Extra("id_token").(string); ok {
		link.IDToken = idToken
	}

	return link, nil
}

func (p *provider) FrontendURL(state string) string {
	if !p.echoState {
		state = ""
	}
	return FrontendRedirect(p.frontendURL, p.name, state)
}

func (p *provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// getJSON issues an authorized GET and decodes the JSON body into v
func (p *provider) getJSON(ctx context.Context, tok *oauth2.Token, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", p.name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.config.Client(p.clientContext(ctx), tok).Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("%s %s: %w: %d %s", p.name, url, ErrUnexpectedStatus, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", p.name, err)
	}

	return nil
}
