package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const stateAudience = "oauth-state"

var (
	// ErrTokenExpired is returned when a state token is past its expiry
	ErrTokenExpired = errors.New("token is expired")

	// ErrTokenInvalid is returned for malformed, tampered or mismatched tokens
	ErrTokenInvalid = errors.New("token is invalid")
)

// StateClaims are the claims carried by a signed OAuth state
type StateClaims struct {
	UserID   string `json:"uid"`
	UserHash string `json:"uh,omitempty"`
	Provider string `json:"prv"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies OAuth state tokens
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued state tokens
func (j *JWTManager) TTL() time.Duration {
	return j.ttl
}

// GenerateStateToken signs a short-lived state for the given user and provider
func (j *JWTManager) GenerateStateToken(userID, userHash, provider string) (string, error) {
	now := j.now()
	claims := StateClaims{
		UserID:   userID,
		UserHash: userHash,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  jwt.ClaimStrings{stateAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state token: %w", err)
	}

	return tokenString, nil
}

// ValidateStateToken verifies signature, audience and expiry of a state token
func (j *JWTManager) ValidateStateToken(tokenString string) (*StateClaims, error) {
	claims := &StateClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(stateAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
