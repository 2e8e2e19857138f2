// Package auth issues and verifies access tokens, hashes passwords and
// carries the authenticated user through a request context.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig holds the signing parameters shared by issuer and verifier.
type TokenConfig struct {
	SecretKey []byte
	Algorithm string
	TTL       time.Duration
}

// TokenPayload is the typed claim set of a verified access token.
type TokenPayload struct {
	UserID    int64
	ExpiresAt time.Time
}

// TokenManager signs and verifies HMAC access tokens whose subject is the
// decimal user id.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager validates cfg. Only HMAC methods (HS256, HS384, HS512)
// are accepted and the secret must not be empty.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if len(cfg.SecretKey) == 0 {
		return nil, errors.New("token secret key is empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}

	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	return &TokenManager{
		secret: cfg.SecretKey,
		method: method,
		ttl:    cfg.TTL,
		now:    time.Now,
	}, nil
}

// Issue returns a token for userID that expires after the configured TTL.
func (m *TokenManager) Issue(userID int64) (string, error) {
	now := m.now()

	token := jwt.NewWithClaims(m.method, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature, algorithm, expiry and issue time of raw and
// decodes its claims. Every failure wraps common.ErrInvalidToken.
func (m *TokenManager) Verify(raw string) (*TokenPayload, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing issued at", common.ErrInvalidToken)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject %q is not a user id", common.ErrInvalidToken, claims.Subject)
	}

	return &TokenPayload{UserID: id, ExpiresAt: claims.ExpiresAt.Time}, nil
}
