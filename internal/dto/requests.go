package dto

import "strings"

// StateDelimiter separates the user id from the user hash in combined identifiers.
const StateDelimiter = "/"

// StartAuthRequest represents the query of GET /auth/{provider}
type StartAuthRequest struct {
	UserID   string `form:"user_id"`
	UserHash string `form:"user_hash"`
	// State is the combined "<user_id>/<user_hash>" form accepted for compatibility.
	State string `form:"state"`
}

// Identity returns the user id and hash, preferring explicit parameters over the combined state.
func (r *StartAuthRequest) Identity() (userID, userHash string) {
	userID = strings.TrimSpace(r.UserID)
	userHash = strings.TrimSpace(r.UserHash)
	if userID != "" || r.State == "" {
		return userID, userHash
	}

	id, hash, _ := strings.Cut(r.State, StateDelimiter)
	return strings.TrimSpace(id), strings.TrimSpace(hash)
}

// CallbackRequest represents the query of GET /auth/{provider}/callback
type CallbackRequest struct {
	Code             string `form:"code"`
	State            string `form:"state" binding:"required"`
	RealmID          string `form:"realmId"`
	Error            string `form:"error"`
	ErrorDescription string `form:"error_description"`
}

// StatusRequest represents the query of GET /auth/status
type StatusRequest struct {
	UserID    string `form:"user_id"`
	SessionID string `form:"session_id"`
}

// StatusResponse is the onboarding projection of a user row
type StatusResponse struct {
	ID              string  `json:"id,omitempty"`
	UserHash        string  `json:"user_hash,omitempty"`
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Status          *string `json:"status"`
	EmailProvider   *string `json:"email_provider"`
	InvoiceProvider *string `json:"invoice_provider"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
