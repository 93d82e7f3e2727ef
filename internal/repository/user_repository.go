package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"github.com/prperemyshlev/oauth-broker/pkg/database"
)

const userColumns = `id::text, user_hash, name, email, status, email_provider, invoice_provider`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Exists reports whether a user with the given id (and hash, when not empty) exists.
// The id is compared as text so malformed ids simply match nothing.
func (r *userRepository) Exists(ctx context.Context, id, userHash string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id::text = $1)`
	args := []any{id}
	if userHash != "" {
		query = `SELECT EXISTS (SELECT 1 FROM users WHERE id::text = $1 AND user_hash = $2)`
		args = append(args, userHash)
	}

	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query user existence: %w", err)
	}

	return exists, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id::text = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByHash retrieves a user by its user hash
func (r *userRepository) GetByHash(ctx context.Context, userHash string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_hash = $1 LIMIT 1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, userHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with hash not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by hash: %w", err)
	}

	return user, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var userHash, name, email, status, emailProvider, invoiceProvider sql.NullString

	err := row.Scan(
		&user.ID,
		&userHash,
		&name,
		&email,
		&status,
		&emailProvider,
		&invoiceProvider,
	)
	if err != nil {
		return nil, err
	}

	user.UserHash = stringPtr(userHash)
	user.Name = stringPtr(name)
	user.Email = stringPtr(email)
	user.Status = stringPtr(status)
	user.EmailProvider = stringPtr(emailProvider)
	user.InvoiceProvider = stringPtr(invoiceProvider)

	return user, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
