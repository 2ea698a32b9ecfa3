package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/core/ports"
)

// TokenService issues and validates HS256-signed access tokens. The signing
// secret is held here and injected at construction; rotating it invalidates
// every previously issued token, which is the documented operational
// trade-off of a stateless token lifecycle.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

const defaultTokenTTL = 15 * time.Minute

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: signing secret is empty", domain.ErrConfiguration)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs claims {sub, role, iat, exp} for the given user.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now().UTC()
	claims := accessClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate checks signature, expiry and role, in that order. Signature or
// structural failures map to ErrTokenInvalid, a stale token to
// ErrTokenExpired, and a role outside the closed set back to
// ErrTokenInvalid: a token asserting an unknown role is a forgery as far as
// the gateway is concerned.
func (s *TokenService) Validate(tokenString string) (ports.Claims, error) {
	var claims accessClaims
	tkn, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.Claims{}, domain.ErrTokenExpired
		}
		return ports.Claims{}, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return ports.Claims{}, domain.ErrTokenInvalid
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return ports.Claims{}, domain.ErrTokenInvalid
	}

	out := ports.Claims{Subject: claims.Subject, Role: role}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.Expiry = claims.ExpiresAt.Unix()
	}
	return out, nil
}
