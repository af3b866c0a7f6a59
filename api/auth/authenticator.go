package auth

import (
	"context"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	principalCacheSize = 1024
	principalCacheTTL  = 30 * time.Second
)

type Resolver interface {
	Resolve(ctx context.Context, kind models.PrincipalKind, id primitive.ObjectID) (*models.Principal, error)
}

// Authenticator turns a bearer token into a Principal. The subject is
// looked up on every cache miss, so deleted accounts and revoked admin
// rights take effect within the cache TTL.
type Authenticator struct {
	jwt      *JWTManager
	resolver Resolver
	cache    *expirable.LRU[string, *models.Principal]
	logger   *zap.Logger
}

func NewAuthenticator(jwt *JWTManager, resolver Resolver, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		jwt:      jwt,
		resolver: resolver,
		cache:    expirable.NewLRU[string, *models.Principal](principalCacheSize, nil, principalCacheTTL),
		logger:   logger.Named("auth"),
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	if token == "" {
		return nil, apperr.Unauthenticated("authentication required")
	}
	claims, err := a.jwt.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token")
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token")
	}

	key := string(claims.Kind) + ":" + claims.Subject
	if p, ok := a.cache.Get(key); ok {
		return p, nil
	}

	p, err := a.resolver.Resolve(ctx, claims.Kind, id)
	if err != nil {
		a.logger.Error("failed to resolve principal", zap.String("subject", claims.Subject), zap.Error(err))
		return nil, apperr.Internal("failed to resolve principal", err)
	}
	if p == nil {
		return nil, apperr.Unauthenticated("user not found")
	}
	a.cache.Add(key, p)
	return p, nil
}

// Forget drops a cached principal, e.g. after a profile change.
func (a *Authenticator) Forget(kind models.PrincipalKind, id primitive.ObjectID) {
	a.cache.Remove(string(kind) + ":" + id.Hex())
}
