package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{Issuer: "storefront", Audience: "storefront-users", TTL: time.Hour, KID: "test"}
}

func TestAccessTokenCarriesIdentity(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	m := NewManager(priv, testConfig())

	token, jti, err := m.Generator.GenerateAccessToken("ann@example.com", "Website User", []string{"Customer"})
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := m.Verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "Website User", claims.UserType)
	assert.True(t, claims.HasRole("Customer"))
	assert.Equal(t, jti, claims.ID)
}

func TestVerifyRejectsForeignAudience(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	cfg := testConfig()
	token, _, err := NewGenerator(priv, cfg.Issuer, "someone-else", "", time.Hour).
		GenerateAccessToken("ann@example.com", "Website User", nil)
	require.NoError(t, err)

	_, err = NewVerifier(&priv.PublicKey, cfg.Issuer, cfg.Audience).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsOtherKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token, _, err := NewManager(priv, testConfig()).Generator.GenerateAccessToken("ann@example.com", "", nil)
	require.NoError(t, err)

	_, err = NewManager(other, testConfig()).Verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	cfg := testConfig()
	token, _, err := NewGenerator(priv, cfg.Issuer, cfg.Audience, "", -time.Minute).
		GenerateAccessToken("ann@example.com", "Website User", nil)
	require.NoError(t, err)

	_, err = NewVerifier(&priv.PublicKey, cfg.Issuer, cfg.Audience).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTokenWithoutEmail(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	m := NewManager(priv, testConfig())

	token, _, err := m.Generator.GenerateAccessToken("", "Website User", nil)
	require.NoError(t, err)

	_, err = m.Verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
