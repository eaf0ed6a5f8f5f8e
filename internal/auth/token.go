package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/chat-service/internal/domain"
)

// DefaultSessionTTL is the lifetime of a session token.
const DefaultSessionTTL = 7 * 24 * time.Hour

// TokenManager handles issuing and validating session JWTs.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Claims describes JWT payload.
type Claims struct {
	User domain.Identity `json:"user"`
	jwt.RegisteredClaims
}

// TTL reports the validity window of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// GenerateToken builds and signs a JWT for the identity.
func (tm *TokenManager) GenerateToken(identity domain.Identity) (string, time.Time, error) {
	issuedAt := jwt.NewNumericDate(tm.now())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(tm.ttl))
	claims := &Claims{
		User: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: expiresAt,
			IssuedAt:  issuedAt,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt.Time, nil
}

// ParseToken validates and returns claims. Every signature or structure problem collapses
// into domain.ErrInvalidToken; only a correctly signed token can report domain.ErrExpired.
// A token is already expired at the instant now equals its expiry.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, domain.ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := tm.parser(jwt.WithExpirationRequired(), jwt.WithTimeFunc(tm.now)).
		ParseWithClaims(tokenStr, claims, tm.key)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && tm.signatureValid(tokenStr) {
			return nil, domain.ErrExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !parsed.Valid || claims.User.ID == "" || claims.Subject != claims.User.ID {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// signatureValid checks the signature alone so that an expiry report is never given for a
// token this server did not sign.
func (tm *TokenManager) signatureValid(tokenStr string) bool {
	_, err := tm.parser(jwt.WithoutClaimsValidation()).ParseWithClaims(tokenStr, &Claims{}, tm.key)
	return err == nil
}

func (tm *TokenManager) parser(opts ...jwt.ParserOption) *jwt.Parser {
	base := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
	}
	return jwt.NewParser(append(base, opts...)...)
}

func (tm *TokenManager) key(*jwt.Token) (interface{}, error) {
	return tm.secret, nil
}
