package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker("test-secret-test-secret-test-secret")

	tok, err := tm.New("u1", "u1@example.com", time.Minute)
	require.NoError(t, err)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "u1@example.com", c.Email)
}

func TestTokenMaker_RejectsWrongSecret(t *testing.T) {
	tok, err := NewTokenMaker("secret-a").New("u1", "", time.Minute)
	require.NoError(t, err)

	_, err = NewTokenMaker("secret-b").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_RejectsExpired(t *testing.T) {
	tm := NewTokenMaker("secret")
	tok, err := tm.New("u1", "", -time.Minute)
	require.NoError(t, err)

	_, err = tm.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_SubjectOnlyToken(t *testing.T) {
	secret := []byte("secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(secret)
	require.NoError(t, err)

	c, err := NewTokenMaker(string(secret)).Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u7", c.UserID)
}

func TestTokenMaker_RejectsNoneAlg(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenMaker("secret").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
