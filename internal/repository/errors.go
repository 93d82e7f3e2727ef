package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrUnknownUser is returned when a link references a user that does not exist
	ErrUnknownUser = errors.New("referenced user does not exist")

	// ErrUnsupportedProvider is returned for providers without a link table
	ErrUnsupportedProvider = errors.New("no link table for provider")
)
