package domain

// User is the application user record owned by the datastore.
// This service never creates or deletes users.
type User struct {
	ID              string  `json:"id" db:"id"`
	UserHash        *string `json:"user_hash" db:"user_hash"`
	Name            *string `json:"name" db:"name"`
	Email           *string `json:"email" db:"email"`
	Status          *string `json:"status" db:"status"`
	EmailProvider   *string `json:"email_provider" db:"email_provider"`
	InvoiceProvider *string `json:"invoice_provider" db:"invoice_provider"`
}

// LookupResult is the outcome of checking that a user exists before an OAuth round trip.
type LookupResult struct {
	Found      bool
	StatusCode int
	Message    string
}
