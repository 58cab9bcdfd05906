package coinbase

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const tokenLifetime = 2 * time.Minute

// Signer produces the short-lived ES256 JWTs Coinbase Advanced Trade
// expects on authenticated requests.
type Signer struct {
	keyName string
	key     *ecdsa.PrivateKey
	clock   func() time.Time
}

// NewSigner parses a CDP API key. The secret is PEM; env files often carry
// it with literal \n sequences, which are converted back to newlines here.
func NewSigner(keyName, pemSecret string) (*Signer, error) {
	if strings.TrimSpace(keyName) == "" || strings.TrimSpace(pemSecret) == "" {
		return nil, fmt.Errorf("coinbase: api key and secret are required")
	}
	pemSecret = strings.ReplaceAll(pemSecret, `\n`, "\n")

	block, _ := pem.Decode([]byte(pemSecret))
	if block == nil {
		return nil, fmt.Errorf("coinbase: api secret is not valid PEM")
	}

	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		parsed, pkcs8Err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if pkcs8Err != nil {
			return nil, fmt.Errorf("coinbase: parse api secret: %w", err)
		}
		ecKey, ok := parsed.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("coinbase: api secret is not an EC key")
		}
		key = ecKey
	}

	return &Signer{keyName: keyName, key: key, clock: time.Now}, nil
}

// Token signs a JWT scoped to one request, e.g. ("GET", "api.coinbase.com",
// "/api/v3/brokerage/accounts").
func (s *Signer) Token(method, host, path string) (string, error) {
	now := s.clock()

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("coinbase: nonce: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": "cdp",
		"sub": s.keyName,
		"nbf": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
		"uri": fmt.Sprintf("%s %s%s", method, host, path),
	})
	token.Header["kid"] = s.keyName
	token.Header["nonce"] = hex.EncodeToString(nonce)

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("coinbase: sign request token: %w", err)
	}
	return signed, nil
}
