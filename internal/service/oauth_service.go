package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"github.com/prperemyshlev/oauth-broker/internal/dto"
	"github.com/prperemyshlev/oauth-broker/internal/oauth"
	"github.com/prperemyshlev/oauth-broker/internal/repository"
	"github.com/prperemyshlev/oauth-broker/pkg/observability"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// oauthService implements OAuthService interface
type oauthService struct {
	users    UserService
	linkRepo repository.AccountLinkRepository
	states   StateCodec
	timeout  time.Duration
	metrics  *observability.FlowMetrics
	logger   *zap.Logger
}

// NewOAuthService creates a new OAuth service. Each provider call is bounded by timeout.
func NewOAuthService(
	users UserService,
	linkRepo repository.AccountLinkRepository,
	states StateCodec,
	timeout time.Duration,
	metrics *observability.FlowMetrics,
	logger *zap.Logger,
) OAuthService {
	return &oauthService{
		users:    users,
		linkRepo: linkRepo,
		states:   states,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *oauthService) Begin(ctx context.Context, provider oauth.Provider, req *dto.StartAuthRequest) (string, error) {
	authURL, err := s.begin(ctx, provider, req)
	s.metrics.RecordStart(ctx, provider.Name().String(), outcome(err, "redirected"))
	if err != nil {
		s.logger.Warn("OAuth start rejected",
			zap.String("provider", provider.Name().String()),
			zap.Error(err),
		)
		return "", err
	}
	return authURL, nil
}

func (s *oauthService) begin(ctx context.Context, provider oauth.Provider, req *dto.StartAuthRequest) (string, error) {
	userID, userHash := req.Identity()
	if userID == "" {
		return "", fmt.Errorf("%w: user_id is required", domain.ErrInvalidRequest)
	}
	if !provider.RequiresUserHash() {
		userHash = ""
	} else if userHash == "" {
		return "", fmt.Errorf("%w: user_hash is required", domain.ErrInvalidRequest)
	}

	result := s.users.Exists(ctx, userID, userHash)
	if !result.Found {
		return "", &LookupError{Result: result}
	}

	state, err := s.states.Encode(provider.Name(), domain.OAuthState{UserID: userID, UserHash: userHash})
	if err != nil {
		return "", err
	}

	return provider.AuthCodeURL(state), nil
}

func (s *oauthService) Complete(ctx context.Context, provider oauth.Provider, req *dto.CallbackRequest) (string, error) {
	redirect, err := s.complete(ctx, provider, req)
	s.metrics.RecordCallback(ctx, provider.Name().String(), outcome(err, "connected"))
	if err != nil {
		s.logger.Error("OAuth callback failed",
			zap.String("provider", provider.Name().String()),
			zap.Error(err),
		)
		return "", err
	}

	s.logger.Info("Account connected", zap.String("provider", provider.Name().String()))
	return redirect, nil
}

func (s *oauthService) complete(ctx context.Context, provider oauth.Provider, req *dto.CallbackRequest) (string, error) {
	if req.Error != "" {
		return "", fmt.Errorf("%w: %s: %s", domain.ErrProviderDenied, req.Error, req.ErrorDescription)
	}
	if req.Code == "" {
		return "", fmt.Errorf("%w: code is required", domain.ErrInvalidRequest)
	}

	params := oauth.CallbackParams{RealmID: req.RealmID}
	if err := provider.ValidateCallback(params); err != nil {
		return "", err
	}

	state, err := s.states.Decode(ctx, provider.Name(), req.State)
	if err != nil {
		return "", err
	}

	var tok *oauth2.Token
	err = s.call(ctx, "token exchange", func(ctx context.Context) (err error) {
		tok, err = provider.Exchange(ctx, req.Code)
		return err
	})
	if err != nil {
		return "", err
	}

	var link *domain.AccountLink
	err = s.call(ctx, "profile fetch", func(ctx context.Context) (err error) {
		link, err = provider.FetchProfile(ctx, tok, params)
		return err
	})
	if err != nil {
		return "", err
	}

	link.UserID = state.UserID
	if err := s.linkRepo.Upsert(ctx, link); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	return provider.FrontendURL(req.State), nil
}

// call runs one outbound provider step under its own deadline
func (s *oauthService) call(ctx context.Context, step string, fn func(ctx context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := fn(stepCtx); err != nil {
		if errors.Is(stepCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w: %w", step, domain.ErrProviderTimeout, err)
		}
		return fmt.Errorf("%s: %w: %w", step, domain.ErrProviderExchange, err)
	}
	return nil
}

// outcome labels a flow result for metrics
func outcome(err error, success string) string {
	var lookupErr *LookupError
	switch {
	case err == nil:
		return success
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.As(err, &lookupErr):
		return "lookup_failed"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, domain.ErrProviderDenied):
		return "denied"
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrStateExpired), errors.Is(err, domain.ErrStateReplayed):
		return "invalid_state"
	case errors.Is(err, domain.ErrProviderTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrProviderExchange):
		return "exchange_failed"
	case errors.Is(err, domain.ErrPersistence):
		return "persist_failed"
	default:
		return "error"
	}
}
