package domain

import "errors"

var (
	// ErrUnknownProvider is returned for providers that are unsupported or not configured
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInvalidRequest is returned when required request parameters are missing or malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUserNotFound is returned when the application user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidState is returned when the state parameter cannot be decoded or verified
	ErrInvalidState = errors.New("invalid state")

	// ErrStateExpired is returned for signed states past their expiry
	ErrStateExpired = errors.New("state expired")

	// ErrStateReplayed is returned when a signed state is presented a second time
	ErrStateReplayed = errors.New("state already used")

	// ErrProviderDenied is returned when the provider redirects back with an error
	ErrProviderDenied = errors.New("authorization denied by provider")

	// ErrProviderExchange is returned when a token or profile call to the provider fails
	ErrProviderExchange = errors.New("provider exchange failed")

	// ErrProviderTimeout is returned when a provider call exceeds its deadline
	ErrProviderTimeout = errors.New("provider request timed out")

	// ErrPersistence is returned when the account link cannot be written
	ErrPersistence = errors.New("failed to persist account link")
)
