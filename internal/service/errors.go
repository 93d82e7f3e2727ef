package service

import (
	"net/http"

	"github.com/prperemyshlev/oauth-broker/internal/domain"
)

// LookupError carries a failed user lookup to the caller unchanged
type LookupError struct {
	Result domain.LookupResult
}

func (e *LookupError) Error() string {
	return e.Result.Message
}

func (e *LookupError) Unwrap() error {
	if e.Result.StatusCode == http.StatusNotFound {
		return domain.ErrUserNotFound
	}
	return nil
}
