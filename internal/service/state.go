package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"github.com/prperemyshlev/oauth-broker/internal/dto"
	"github.com/prperemyshlev/oauth-broker/internal/utils"
)

// DelimitedStateCodec encodes the state as "<user_id>" or "<user_id>/<user_hash>"
type DelimitedStateCodec struct{}

// NewDelimitedStateCodec creates a plain text state codec
func NewDelimitedStateCodec() *DelimitedStateCodec {
	return &DelimitedStateCodec{}
}

func (DelimitedStateCodec) Encode(_ domain.Provider, state domain.OAuthState) (string, error) {
	if state.UserID == "" {
		return "", fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	if strings.Contains(state.UserID, dto.StateDelimiter) {
		return "", fmt.Errorf("%w: user id must not contain %q", domain.ErrInvalidRequest, dto.StateDelimiter)
	}

	if state.UserHash == "" {
		return state.UserID, nil
	}
	return state.UserID + dto.StateDelimiter + state.UserHash, nil
}

func (DelimitedStateCodec) Decode(_ context.Context, _ domain.Provider, raw string) (domain.OAuthState, error) {
	userID, userHash, _ := strings.Cut(raw, dto.StateDelimiter)
	if userID == "" {
		return domain.OAuthState{}, fmt.Errorf("%w: missing user id", domain.ErrInvalidState)
	}
	return domain.OAuthState{UserID: userID, UserHash: userHash}, nil
}

// SignedStateCodec encodes the state as a short-lived signed token bound to
// the provider. Each token is accepted once.
type SignedStateCodec struct {
	jwt   *utils.JWTManager
	guard ReplayGuard
}

// NewSignedStateCodec creates a signed state codec
func NewSignedStateCodec(jwt *utils.JWTManager, guard ReplayGuard) *SignedStateCodec {
	return &SignedStateCodec{jwt: jwt, guard: guard}
}

func (c *SignedStateCodec) Encode(provider domain.Provider, state domain.OAuthState) (string, error) {
	if state.UserID == "" {
		return "", fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	return c.jwt.GenerateStateToken(state.UserID, state.UserHash, provider.String())
}

func (c *SignedStateCodec) Decode(ctx context.Context, provider domain.Provider, raw string) (domain.OAuthState, error) {
	claims, err := c.jwt.ValidateStateToken(raw)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return domain.OAuthState{}, domain.ErrStateExpired
		}
		return domain.OAuthState{}, fmt.Errorf("%w: %w", domain.ErrInvalidState, err)
	}

	if claims.Provider != provider.String() {
		return domain.OAuthState{}, fmt.Errorf("%w: issued for %s", domain.ErrInvalidState, claims.Provider)
	}

	ttl := c.jwt.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time) + time.Minute
	}

	fresh, err := c.guard.Consume(ctx, claims.ID, ttl)
	if err != nil {
		return domain.OAuthState{}, err
	}
	if !fresh {
		return domain.OAuthState{}, domain.ErrStateReplayed
	}

	return domain.OAuthState{UserID: claims.UserID, UserHash: claims.UserHash}, nil
}
