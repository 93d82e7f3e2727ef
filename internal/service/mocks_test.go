package service

import (
	"context"
	"time"

	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"github.com/prperemyshlev/oauth-broker/internal/oauth"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Exists(ctx context.Context, id, userHash string) (bool, error) {
	args := m.Called(ctx, id, userHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByHash(ctx context.Context, userHash string) (*domain.User, error) {
	args := m.Called(ctx, userHash)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type MockAccountLinkRepository struct {
	mock.Mock
}

func (m *MockAccountLinkRepository) Upsert(ctx context.Context, link *domain.AccountLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockAccountLinkRepository) GetByUserID(ctx context.Context, provider domain.Provider, userID string) (*domain.AccountLink, error) {
	args := m.Called(ctx, provider, userID)
	link, _ := args.Get(0).(*domain.AccountLink)
	return link, args.Error(1)
}

type MockReplayGuard struct {
	mock.Mock
}

func (m *MockReplayGuard) Consume(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, id, ttl)
	return args.Bool(0), args.Error(1)
}

// MockProvider has a fixed identity; its network calls are mocked.
type MockProvider struct {
	mock.Mock
	name         domain.Provider
	requiresHash bool
	echoState    bool
}

func (m *MockProvider) Name() domain.Provider { return m.name }

func (m *MockProvider) RequiresUserHash() bool { return m.requiresHash }

func (m *MockProvider) AuthCodeURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (m *MockProvider) ValidateCallback(params oauth.CallbackParams) error {
	args := m.Called(params)
	return args.Error(0)
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	tok, _ := args.Get(0).(*oauth2.Token)
	return tok, args.Error(1)
}

func (m *MockProvider) FetchProfile(ctx context.Context, tok *oauth2.Token, params oauth.CallbackParams) (*domain.AccountLink, error) {
	args := m.Called(ctx, tok, params)
	link, _ := args.Get(0).(*domain.AccountLink)
	return link, args.Error(1)
}

func (m *MockProvider) FrontendURL(state string) string {
	if !m.echoState {
		state = ""
	}
	return oauth.FrontendRedirect("https://app.example.com/setup", m.name, state)
}
