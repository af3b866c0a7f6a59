package middleware

import (
	"context"
	"strings"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/gin-gonic/gin"
)

type contextKey string

const PrincipalContextKey contextKey = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, p)
}

// PrincipalFrom returns the authenticated caller, or nil.
func PrincipalFrom(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(PrincipalContextKey).(*models.Principal)
	return p
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved principal on the request context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			// Browsers cannot set headers on websocket upgrades.
			token = c.Query("token")
		}
		p, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c.Request.Context())
		if p == nil {
			AbortWithError(c, apperr.Unauthenticated("authentication required"))
			return
		}
		if !p.IsAdmin {
			AbortWithError(c, apperr.Forbidden("admin access required"))
			return
		}
		c.Next()
	}
}
