package server

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-membership-service/internal/config"
)

// pemPair encodes key as PKCS8 and its public half as PKIX.
func pemPair(t *testing.T, key crypto.Signer) (string, string) {
	t.Helper()
	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(key.Public())
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})),
		string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))
}

func TestNewTokenProvider(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:   "a-secret-long-enough",
		JWTIssuer:   "iss",
		JWTAudience: "aud",
	}
	p, err := NewTokenProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "HS256", p.Alg())
	assert.Equal(t, 6*time.Hour, p.TTL())

	token, _, err := p.Issue("u1", "John")
	require.NoError(t, err)
	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	cfg.JWTPrivateKey = "not-a-key"
	cfg.JWTPublicKey = "not-a-key"
	_, err = NewTokenProvider(cfg)
	assert.Error(t, err)
}

func TestNewTokenProvider_KeyPair(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		key     crypto.Signer
		wantAlg string
	}{
		{"RSA", rsaKey, "RS256"},
		{"ECDSA P-256", ecKey, "ES256"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			priv, pub := pemPair(t, tc.key)
			pubPath := filepath.Join(t.TempDir(), "jwt.pub")
			require.NoError(t, os.WriteFile(pubPath, []byte(pub), 0o600))

			cfg := &config.Config{
				// The HS256 secret is ignored once a key pair is configured.
				JWTSecret:     "a-secret-long-enough",
				JWTPrivateKey: strings.ReplaceAll(priv, "\n", `\n`),
				JWTPublicKey:  pubPath,
				JWTIssuer:     "iss",
				JWTAudience:   "aud",
			}
			p, err := NewTokenProvider(cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAlg, p.Alg())
			assert.Equal(t, 6*time.Hour, p.TTL())

			token, expiresAt, err := p.Issue("u1", "John")
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(6*time.Hour), expiresAt, time.Minute)
			claims, err := p.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, "John", claims.FirstName)
		})
	}
}
