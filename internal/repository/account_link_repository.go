package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"github.com/prperemyshlev/oauth-broker/pkg/database"
)

// linkColumn maps a table column to an AccountLink field
type linkColumn struct {
	name  string
	field func(l *domain.AccountLink) *string
}

type linkTable struct {
	name    string
	columns []linkColumn
}

var tokenColumns = []linkColumn{
	{"access_token", func(l *domain.AccountLink) *string { return &l.AccessToken }},
	{"refresh_token", func(l *domain.AccountLink) *string { return &l.RefreshToken }},
	{"id_token", func(l *domain.AccountLink) *string { return &l.IDToken }},
}

var linkTables = map[domain.Provider]linkTable{
	domain.ProviderGoogle: {
		name: "google_users",
		columns: []linkColumn{
			{"google_id", func(l *domain.AccountLink) *string { return &l.ProviderUserID }},
			{"email", func(l *domain.AccountLink) *string { return &l.Email }},
			{"given_name", func(l *domain.AccountLink) *string { return &l.GivenName }},
			{"family_name", func(l *domain.AccountLink) *string { return &l.FamilyName }},
			{"picture", func(l *domain.AccountLink) *string { return &l.Picture }},
		},
	},
	domain.ProviderOutlook: {
		name: "outlook_users",
		columns: []linkColumn{
			{"outlook_id", func(l *domain.AccountLink) *string { return &l.ProviderUserID }},
			{"email", func(l *domain.AccountLink) *string { return &l.Email }},
			{"display_name", func(l *domain.AccountLink) *string { return &l.DisplayName }},
			{"given_name", func(l *domain.AccountLink) *string { return &l.GivenName }},
			{"surname", func(l *domain.AccountLink) *string { return &l.FamilyName }},
		},
	},
	domain.ProviderXero: {
		name: "xero_users",
		columns: []linkColumn{
			{"tenant_id", func(l *domain.AccountLink) *string { return &l.TenantID }},
			{"tenant_name", func(l *domain.AccountLink) *string { return &l.TenantName }},
		},
	},
	domain.ProviderQuickBooks: {
		name: "quickbooks_users",
		columns: []linkColumn{
			{"realm_id", func(l *domain.AccountLink) *string { return &l.RealmID }},
			{"email", func(l *domain.AccountLink) *string { return &l.Email }},
			{"given_name", func(l *domain.AccountLink) *string { return &l.GivenName }},
			{"family_name", func(l *domain.AccountLink) *string { return &l.FamilyName }},
		},
	},
}

func tableFor(provider domain.Provider) (linkTable, error) {
	t, ok := linkTables[provider]
	if !ok {
		return linkTable{}, fmt.Errorf("%s: %w", provider, ErrUnsupportedProvider)
	}
	return t, nil
}

func (t linkTable) allColumns() []linkColumn {
	return append(append([]linkColumn{}, t.columns...), tokenColumns...)
}

// upsertQuery builds an insert that replaces the existing row of the same user
func (t linkTable) upsertQuery() string {
	cols := t.allColumns()

	names := make([]string, 0, len(cols)+1)
	placeholders := make([]string, 0, len(cols)+1)
	updates := make([]string, 0, len(cols)+1)

	names = append(names, "user_id")
	placeholders = append(placeholders, "$1")
	for i, c := range cols {
		names = append(names, c.name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c.name, c.name))
	}
	updates = append(updates, "updated_at = now()")

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (user_id) DO UPDATE SET %s",
		pq.QuoteIdentifier(t.name),
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
}

func (t linkTable) selectQuery() string {
	cols := t.allColumns()
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.name)
	}

	return fmt.Sprintf("SELECT user_id::text, %s FROM %s WHERE user_id::text = $1",
		strings.Join(names, ", "), pq.QuoteIdentifier(t.name))
}

// accountLinkRepository implements AccountLinkRepository interface
type accountLinkRepository struct {
	db *database.Postgres
}

// NewAccountLinkRepository creates a new account link repository
func NewAccountLinkRepository(db *database.Postgres) AccountLinkRepository {
	return &accountLinkRepository{db: db}
}

// Upsert writes the link, replacing any existing link of the same provider and user
func (r *accountLinkRepository) Upsert(ctx context.Context, link *domain.AccountLink) error {
	table, err := tableFor(link.Provider)
	if err != nil {
		return err
	}

	cols := table.allColumns()
	args := make([]any, 0, len(cols)+1)
	args = append(args, link.UserID)
	for _, c := range cols {
		args = append(args, nullString(*c.field(link)))
	}

	if _, err := r.db.DB.ExecContext(ctx, table.upsertQuery(), args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%s link for user %s: %w", link.Provider, link.UserID, ErrUnknownUser)
		}
		return fmt.Errorf("failed to upsert %s link: %w", link.Provider, err)
	}

	return nil
}

// GetByUserID retrieves the link of a user for the given provider
func (r *accountLinkRepository) GetByUserID(ctx context.Context, provider domain.Provider, userID string) (*domain.AccountLink, error) {
	table, err := tableFor(provider)
	if err != nil {
		return nil, err
	}

	cols := table.allColumns()
	values := make([]sql.NullString, len(cols))
	dest := make([]any, 0, len(cols)+1)

	link := &domain.AccountLink{Provider: provider}
	dest = append(dest, &link.UserID)
	for i := range values {
		dest = append(dest, &values[i])
	}

	if err := r.db.DB.QueryRowContext(ctx, table.selectQuery(), userID).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s link for user %s not found: %w", provider, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s link: %w", provider, err)
	}

	for i, c := range cols {
		*c.field(link) = values[i].String
	}

	return link, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
