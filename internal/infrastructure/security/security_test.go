package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waste3d/pianoplatform-api/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret")
	tok, err := m.Generate(domain.UserIdentity{ID: "u1", Email: "u1@example.com"}, time.Minute)
	require.NoError(t, err)

	user, err := m.ValidateAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, &domain.UserIdentity{ID: "u1", Email: "u1@example.com"}, user)
}

func TestTokenRejects(t *testing.T) {
	m := NewTokenManager("secret")

	expired, err := m.Generate(domain.UserIdentity{ID: "u1"}, -time.Minute)
	require.NoError(t, err)
	other, err := NewTokenManager("other").Generate(domain.UserIdentity{ID: "u1"}, time.Minute)
	require.NoError(t, err)
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "type": "refresh", "exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	noSub, err := m.Generate(domain.UserIdentity{}, time.Minute)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"expired":    expired,
		"wrong key":  other,
		"refresh":    refresh,
		"no subject": noSub,
		"garbage":    "not-a-token",
	} {
		_, err := m.ValidateAccessToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestAdminKeyVerifier(t *testing.T) {
	hash, err := HashAdminKey("let-me-in")
	require.NoError(t, err)

	v := NewAdminKeyVerifier(hash)
	assert.True(t, v.Enabled())
	assert.True(t, v.Verify("let-me-in"))
	assert.False(t, v.Verify("wrong"))
	assert.False(t, v.Verify(""))

	disabled := NewAdminKeyVerifier("")
	assert.False(t, disabled.Enabled())
	assert.False(t, disabled.Verify("let-me-in"))
}
