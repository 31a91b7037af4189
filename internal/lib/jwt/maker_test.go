package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/focus-tracker/internal/models"
)

const testSecret = "test_secret_key_1234567890"

func newSession(username, displayName string, ttl time.Duration) models.Session {
	now := time.Now().Truncate(time.Second)
	return models.Session{
		ID:          "7b0c1a9e-52f4-4b7e-9d5c-1f2e3d4c5b6a",
		Username:    username,
		DisplayName: displayName,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
	}
}

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker(testSecret)

	tests := []struct {
		name        string
		username    string
		displayName string
	}{
		{name: "plain user", username: "alice", displayName: "Alice A."},
		{name: "unicode display name", username: "bob", displayName: "Боб"},
		{name: "email-like username", username: "carol@example.com", displayName: "Carol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newSession(tt.username, tt.displayName, time.Hour)

			token, err := maker.GenerateToken(session)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			got, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, session.ID, got.ID)
			assert.Equal(t, tt.username, got.Username)
			assert.Equal(t, tt.displayName, got.DisplayName)
			assert.WithinDuration(t, session.IssuedAt, got.IssuedAt, time.Second)
			assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker(testSecret)

	valid, err := maker.GenerateToken(newSession("alice", "Alice", time.Hour))
	require.NoError(t, err)

	expired, err := maker.GenerateToken(newSession("alice", "Alice", -time.Hour))
	require.NoError(t, err)

	foreign, err := NewJWTMaker("another_secret_key_0987654321").GenerateToken(newSession("alice", "Alice", time.Hour))
	require.NoError(t, err)

	noneAlg, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, CustomClaims{
		Username: "alice",
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        "id",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: expired},
		{name: "wrong secret key", token: foreign},
		{name: "tampered token", token: valid + "tampered"},
		{name: "none algorithm", token: noneAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := maker.ParseToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, session)
		})
	}
}

func TestJWTMaker_MissingSessionID(t *testing.T) {
	maker := NewJWTMaker(testSecret)

	session := newSession("alice", "Alice", time.Hour)
	session.ID = ""
	token, err := maker.GenerateToken(session)
	require.NoError(t, err)

	got, err := maker.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, got)
}
