package coinbase

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPEM(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
	return key, string(pemBytes)
}

func TestSignerTokenRoundTrip(t *testing.T) {
	key, pemSecret := testKeyPEM(t)

	signer, err := NewSigner("organizations/org/apiKeys/key-1", pemSecret)
	require.NoError(t, err)
	signer.clock = func() time.Time { return time.Unix(1700000000, 0) }

	token, err := signer.Token("GET", "api.coinbase.com", "/api/v3/brokerage/accounts")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, jwt.WithoutClaimsValidation())
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "cdp", claims["iss"])
	assert.Equal(t, "organizations/org/apiKeys/key-1", claims["sub"])
	assert.Equal(t, "GET api.coinbase.com/api/v3/brokerage/accounts", claims["uri"])
	assert.EqualValues(t, 1700000000, claims["nbf"])
	assert.EqualValues(t, 1700000000+120, claims["exp"])

	assert.Equal(t, "organizations/org/apiKeys/key-1", parsed.Header["kid"])
	assert.NotEmpty(t, parsed.Header["nonce"])
}

func TestNewSignerAcceptsEscapedNewlines(t *testing.T) {
	_, pemSecret := testKeyPEM(t)
	escaped := strings.ReplaceAll(pemSecret, "\n", `\n`)

	_, err := NewSigner("key", escaped)
	require.NoError(t, err)
}

func TestNewSignerAcceptsPKCS8(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pemSecret := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))

	_, err = NewSigner("key", pemSecret)
	require.NoError(t, err)
}

func TestNewSignerRejectsBadInput(t *testing.T) {
	_, err := NewSigner("", "secret")
	assert.Error(t, err)

	_, err = NewSigner("key", "not pem at all")
	assert.Error(t, err)
}
