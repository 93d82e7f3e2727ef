package repository

import (
	"github.com/prperemyshlev/oauth-broker/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User        UserRepository
	AccountLink AccountLinkRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		AccountLink: NewAccountLinkRepository(db),
	}
}
