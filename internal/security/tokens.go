package security

import (
	"crypto"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, badly signed, or issued for another service.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when an otherwise valid token is past its exp claim.
	ErrTokenExpired = errors.New("token expired")
)

// AccessTokenTTL is how long an issued token stays valid.
const AccessTokenTTL = 6 * time.Hour

// minHMACSecretLen is the shortest HS256 secret accepted at construction.
const minHMACSecretLen = 8

// Claims is the identity token payload.
type Claims struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	jwt.RegisteredClaims
}

// Option configures a TokenProvider.
type Option func(*TokenProvider)

// WithClock overrides the time source used for iat/exp and verification.
func WithClock(now func() time.Time) Option {
	return func(p *TokenProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// TokenProvider issues and verifies identity JWTs. It signs with HS256 when built from a
// secret, or RS256/ES256 when built from a key pair.
type TokenProvider struct {
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	issuer    string
	audience  string
	ttl       time.Duration
	now       func() time.Time
}

// NewHMACTokenProvider returns a provider signing with secret (HS256).
func NewHMACTokenProvider(secret []byte, issuer, audience string, ttl time.Duration, opts ...Option) (*TokenProvider, error) {
	if len(secret) < minHMACSecretLen {
		return nil, ErrInvalidKey
	}
	key := append([]byte(nil), secret...)
	return newProvider(jwt.SigningMethodHS256, key, key, issuer, audience, ttl, opts), nil
}

// NewTokenProvider returns a provider signing with privateKey (RS256 or ES256 by key type).
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, ttl time.Duration, opts ...Option) (*TokenProvider, error) {
	if isNil(privateKey) || isNil(publicKey) {
		return nil, ErrInvalidKey
	}
	var method jwt.SigningMethod
	switch KeyAlg(publicKey) {
	case "RS256":
		method = jwt.SigningMethodRS256
	case "ES256":
		method = jwt.SigningMethodES256
	default:
		return nil, ErrInvalidKey
	}
	return newProvider(method, privateKey, publicKey, issuer, audience, ttl, opts), nil
}

func newProvider(method jwt.SigningMethod, signKey, verifyKey interface{}, issuer, audience string, ttl time.Duration, opts []Option) *TokenProvider {
	p := &TokenProvider{
		method:    method,
		signKey:   signKey,
		verifyKey: verifyKey,
		issuer:    issuer,
		audience:  audience,
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Alg returns the JWS algorithm name, e.g. "HS256".
func (p *TokenProvider) Alg() string { return p.method.Alg() }

// TTL returns the fixed token lifetime.
func (p *TokenProvider) TTL() time.Duration { return p.ttl }

// Issue signs a token for userID carrying firstName. Returns the token and its expiry.
func (p *TokenProvider) Issue(userID, firstName string) (token string, expiresAt time.Time, err error) {
	if strings.TrimSpace(userID) == "" {
		return "", time.Time{}, errors.New("security: empty user id")
	}
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.now().UTC().Truncate(time.Second)
	expiresAt = now.Add(p.ttl)
	claims := Claims{
		UserID:    userID,
		FirstName: firstName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err = jwt.NewWithClaims(p.method, claims).SignedString(p.signKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify parses tokenString and validates signature, algorithm, iss, aud, and exp.
// Returns ErrTokenExpired for expired tokens and ErrInvalidToken for everything else.
func (p *TokenProvider) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return p.verifyKey, nil
	},
		jwt.WithValidMethods([]string{p.method.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
