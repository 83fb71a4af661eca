package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

const (
	principalKey = "principal"
	bearerScheme = "Bearer"

	// forbiddenPrefix is the path prefix answered with 403 instead of 401
	// when no principal is bound.
	forbiddenPrefix = "/usuarios"
)

type principalCtxKey struct{}

// TokenVerifier returns the subject of a valid token, or "" for any invalid,
// expired or foreign token.
type TokenVerifier interface {
	Verify(token string) string
}

// PrincipalLoader resolves a verified subject to the caller it identifies.
// It returns (nil, nil) when the subject no longer maps to a user.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, login string) (*domain.Principal, error)
}

// Authenticate binds the caller identified by the bearer token, if any, to
// the request. It never rejects; RequireAuthenticated decides that.
func Authenticate(tokens TokenVerifier, principals PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		login := tokens.Verify(token)
		if login == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		principal, err := principals.LoadPrincipal(ctx, login)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("login", login).Msg("Principal lookup failed")
			c.Next()
			return
		}
		if principal != nil {
			c.Set(principalKey, principal)
			c.Request = c.Request.WithContext(WithPrincipal(ctx, principal))
		}

		c.Next()
	}
}

// RequireAuthenticated rejects requests without a bound principal: 403 under
// /usuarios, 401 everywhere else.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(principalKey); ok {
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, forbiddenPrefix) {
			AbortWithError(c, http.StatusForbidden, "Forbidden")
			return
		}
		AbortWithError(c, http.StatusUnauthorized, "Unauthorized")
	}
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFromContext returns the principal bound by Authenticate, if any.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(*domain.Principal)
	return p, ok && p != nil
}

// bearerToken strips the scheme; a header without it is taken as the raw token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, bearerScheme) {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(header, bearerScheme) {
		return ""
	}
	return header
}
