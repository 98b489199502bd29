package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSigner_RoundTrip(t *testing.T) {
	s := NewSessionSigner("secret", time.Hour)

	tok, err := s.Generate("abc-123")
	require.NoError(t, err)

	claims, err := s.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", claims.SessionID)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestSessionSigner_Rejects(t *testing.T) {
	s := NewSessionSigner("secret", time.Hour)
	other := NewSessionSigner("other", time.Hour)
	expired := NewSessionSigner("secret", -time.Minute)

	foreign, err := other.Generate("abc")
	require.NoError(t, err)
	_, err = s.Validate(foreign)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	old, err := expired.Generate("abc")
	require.NoError(t, err)
	_, err = s.Validate(old)
	assert.ErrorIs(t, err, ErrExpired)

	empty, err := s.Generate("")
	require.NoError(t, err)
	_, err = s.Validate(empty)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{SessionID: "abc"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Validate(unsigned)
	assert.Error(t, err)

	_, err = s.Validate("garbage")
	assert.Error(t, err)
}
