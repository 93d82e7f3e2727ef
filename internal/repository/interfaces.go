package repository

import (
	"context"

	"github.com/prperemyshlev/oauth-broker/internal/domain"
)

// UserRepository reads application user records
type UserRepository interface {
	Exists(ctx context.Context, id, userHash string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByHash(ctx context.Context, userHash string) (*domain.User, error)
}

// AccountLinkRepository writes per-provider account links
type AccountLinkRepository interface {
	Upsert(ctx context.Context, link *domain.AccountLink) error
	GetByUserID(ctx context.Context, provider domain.Provider, userID string) (*domain.AccountLink, error)
}
