package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

// TokenIssuer is the iss claim of every token this service signs and accepts.
const TokenIssuer = "aposta-apoio-api"

// TokenClaims are the claims carried by an access token.
type TokenClaims struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HS256 access tokens.
// Tokens are not stored, so they cannot be revoked before they expire.
type TokenService struct {
	secret     []byte
	expiration time.Duration
	expiryZone *time.Location
	now        func() time.Time
}

// NewTokenService creates a TokenService.
//
// When expiryZone is non-nil the expiry is computed from the server's local
// wall clock re-read in that zone, so a server running in UTC with a -03:00
// zone issues tokens that live three hours longer than expiration. A nil
// zone gives now + expiration.
func NewTokenService(secret string, expiration time.Duration, expiryZone *time.Location) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		expiration: expiration,
		expiryZone: expiryZone,
		now:        time.Now,
	}
}

// Issue signs a token for u with subject = login and id/role claims.
func (s *TokenService) Issue(u *domain.User) (string, error) {
	if u == nil || u.Login == "" {
		return "", errors.New("issue token: user has no login")
	}

	claims := TokenClaims{
		ID:   u.ID,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   u.Login,
			ExpiresAt: jwt.NewNumericDate(s.expiresAt()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of a valid token and "" for anything else:
// bad signature, other algorithm, wrong issuer, expired, or malformed.
func (s *TokenService) Verify(token string) string {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return ""
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok {
		return ""
	}
	return claims.Subject
}

// Expiration returns the configured token lifetime.
func (s *TokenService) Expiration() time.Duration {
	return s.expiration
}

// ExpirationMillis returns the configured lifetime in milliseconds, as
// reported to clients in expiresIn.
func (s *TokenService) ExpirationMillis() int64 {
	return s.expiration.Milliseconds()
}

// expiresAt truncates the lifetime to whole seconds before adding it.
func (s *TokenService) expiresAt() time.Time {
	wall := s.now()
	if s.expiryZone != nil {
		wall = time.Date(wall.Year(), wall.Month(), wall.Day(),
			wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), s.expiryZone)
	}
	return wall.Add(s.expiration.Truncate(time.Second))
}
