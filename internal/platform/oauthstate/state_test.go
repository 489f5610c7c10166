package oauthstate

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSigner(t *testing.T) {
	_, err := NewSigner("", time.Minute)
	assert.Error(t, err)

	s, err := NewSigner("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, s.ttl)
}

func TestSigner_IssueVerify(t *testing.T) {
	s, err := NewSigner("secret", time.Minute)
	require.NoError(t, err)

	state, nonce, err := s.Issue()
	require.NoError(t, err)
	assert.Len(t, nonce, 32)

	assert.NoError(t, s.Verify(state, nonce))
}

func TestSigner_IssueIsUnique(t *testing.T) {
	s, err := NewSigner("secret", time.Minute)
	require.NoError(t, err)

	a, nonceA, err := s.Issue()
	require.NoError(t, err)
	b, nonceB, err := s.Issue()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, nonceA, nonceB)
}

func TestSigner_Verify_Rejects(t *testing.T) {
	s, err := NewSigner("secret", time.Minute)
	require.NoError(t, err)
	other, err := NewSigner("other-secret", time.Minute)
	require.NoError(t, err)

	valid, validNonce, err := s.Issue()
	require.NoError(t, err)

	// A second flow started by another browser: validly signed, different nonce.
	_, otherNonce, err := s.Issue()
	require.NoError(t, err)

	forged, forgedNonce, err := other.Issue()
	require.NoError(t, err)

	expiredSigner, err := NewSigner("secret", time.Minute)
	require.NoError(t, err)
	expiredSigner.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, expiredNonce, err := expiredSigner.Issue()
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    issuer,
		ID:        "n",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		state string
		nonce string
	}{
		{"empty", "", validNonce},
		{"garbage", "not-a-jwt", validNonce},
		{"wrong secret", forged, forgedNonce},
		{"expired", expired, expiredNonce},
		{"none algorithm", noneAlg, "n"},
		{"missing nonce", valid, ""},
		{"nonce of another flow", valid, otherNonce},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Verify(tt.state, tt.nonce), ErrInvalidState)
		})
	}
}
