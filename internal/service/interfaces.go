package service

import (
	"context"
	"time"

	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"github.com/prperemyshlev/oauth-broker/internal/dto"
	"github.com/prperemyshlev/oauth-broker/internal/oauth"
)

// UserService answers questions about application users
type UserService interface {
	Exists(ctx context.Context, userID, userHash string) domain.LookupResult
	GetStatus(ctx context.Context, req *dto.StatusRequest) (*dto.StatusResponse, error)
}

// OAuthService drives the connect flow of a provider
type OAuthService interface {
	// Begin verifies the user and returns the provider authorization URL
	Begin(ctx context.Context, provider oauth.Provider, req *dto.StartAuthRequest) (string, error)
	// Complete handles the provider callback and returns the frontend URL
	Complete(ctx context.Context, provider oauth.Provider, req *dto.CallbackRequest) (string, error)
}

// StateCodec turns a user identity into the OAuth state parameter and back
type StateCodec interface {
	Encode(provider domain.Provider, state domain.OAuthState) (string, error)
	Decode(ctx context.Context, provider domain.Provider, raw string) (domain.OAuthState, error)
}

// ReplayGuard accepts each state id once
type ReplayGuard interface {
	Consume(ctx context.Context, id string, ttl time.Duration) (bool, error)
}
