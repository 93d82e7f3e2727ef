package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-state-secret-that-is-at-least-32-characters"

func TestStateTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, 10*time.Minute)

	token, err := m.GenerateStateToken("u1", "h1", "google")
	require.NoError(t, err)

	claims, err := m.ValidateStateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "h1", claims.UserHash)
	assert.Equal(t, "google", claims.Provider)
	assert.NotEmpty(t, claims.ID)
}

func TestStateTokenUniqueIDs(t *testing.T) {
	m := NewJWTManager(testSecret, time.Minute)

	a, err := m.GenerateStateToken("u1", "", "xero")
	require.NoError(t, err)
	b, err := m.GenerateStateToken("u1", "", "xero")
	require.NoError(t, err)

	ca, err := m.ValidateStateToken(a)
	require.NoError(t, err)
	cb, err := m.ValidateStateToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestStateTokenExpired(t *testing.T) {
	m := NewJWTManager(testSecret, time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateStateToken("u1", "", "xero")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateStateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestStateTokenWrongSecret(t *testing.T) {
	token, err := NewJWTManager(testSecret, time.Minute).GenerateStateToken("u1", "", "xero")
	require.NoError(t, err)

	_, err = NewJWTManager(strings.Repeat("x", 40), time.Minute).ValidateStateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestStateTokenGarbage(t *testing.T) {
	_, err := NewJWTManager(testSecret, time.Minute).ValidateStateToken("u1/h1")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateUUID(t *testing.T) {
	assert.True(t, ValidateUUID("3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	assert.False(t, ValidateUUID("u1"))
	assert.False(t, ValidateUUID("{3f2504e0-4f89-11d3-9a0c-0305e82c3301}"))
}
