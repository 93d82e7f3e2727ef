package oauth

import (
	"fmt"
	"net/http"

	"github.com/prperemyshlev/oauth-broker/internal/config"
	"github.com/prperemyshlev/oauth-broker/internal/domain"
)

// Registry resolves provider names from request paths to configured providers
type Registry struct {
	providers map[domain.Provider]Provider
}

// NewRegistry creates a registry of the given providers
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[domain.Provider]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// NewRegistryFromConfig registers every provider that has client credentials
func NewRegistryFromConfig(cfg *config.Config, httpClient *http.Client) *Registry {
	constructors := []struct {
		cfg config.ProviderConfig
		new func(config.ProviderConfig, *http.Client) Provider
	}{
		{cfg.Google, NewGoogle},
		{cfg.Outlook, NewOutlook},
		{cfg.Xero, NewXero},
		{cfg.QuickBooks, NewQuickBooks},
	}

	var providers []Provider
	for _, c := range constructors {
		if c.cfg.Enabled() {
			providers = append(providers, c.new(c.cfg, httpClient))
		}
	}

	return NewRegistry(providers...)
}

// Lookup returns the provider for a path segment such as "google"
func (r *Registry) Lookup(name string) (Provider, error) {
	p, ok := domain.ParseProvider(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownProvider)
	}

	provider, ok := r.providers[p]
	if !ok {
		return nil, fmt.Errorf("%s is not configured: %w", p, domain.ErrUnknownProvider)
	}

	return provider, nil
}

// Enabled lists the configured providers in a stable order
func (r *Registry) Enabled() []domain.Provider {
	var names []domain.Provider
	for _, p := range domain.Providers {
		if _, ok := r.providers[p]; ok {
			names = append(names, p)
		}
	}
	return names
}
