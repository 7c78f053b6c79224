package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token defaults.
const (
	DefaultIssuer  = "healthprobe"
	DefaultSubject = "healthprobe"
	DefaultTTL     = time.Minute
)

// SignerConfig configures the token signer.
type SignerConfig struct {
	// Secret is the shared HMAC key. Required.
	Secret []byte

	// Issuer is the iss claim.
	// Default: "healthprobe"
	Issuer string

	// Audience is the aud claim. Omitted when empty.
	Audience string

	// Subject is the sub claim.
	// Default: "healthprobe"
	Subject string

	// TTL is the token lifetime.
	// Default: 1 minute
	TTL time.Duration

	// KeyID is set as the kid header when non-empty.
	KeyID string
}

// TokenSigner mints HS256 bearer tokens. Each call to Token produces a fresh
// token, so retried probe attempts never present an expired one.
type TokenSigner struct {
	config SignerConfig
	now    func() time.Time
}

// NewTokenSigner creates a new token signer.
func NewTokenSigner(config SignerConfig) (*TokenSigner, error) {
	if len(config.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if config.Issuer == "" {
		config.Issuer = DefaultIssuer
	}
	if config.Subject == "" {
		config.Subject = DefaultSubject
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	return &TokenSigner{config: config, now: time.Now}, nil
}

// Token returns a signed token valid for the configured TTL.
func (s *TokenSigner) Token() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   s.config.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
	}
	if s.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.config.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.config.KeyID != "" {
		token.Header["kid"] = s.config.KeyID
	}

	signed, err := token.SignedString(s.config.Secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and checks signature, expiry, issuer and, when
// configured, audience.
func (s *TokenSigner) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.config.Audience))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.config.Secret, nil
	}, opts...)

	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
}
