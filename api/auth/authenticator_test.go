package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubResolver struct {
	principals map[primitive.ObjectID]*models.Principal
	calls      int
	err        error
}

func (s *stubResolver) Resolve(_ context.Context, kind models.PrincipalKind, id primitive.ObjectID) (*models.Principal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.principals[id]
	if !ok || p.Kind != kind {
		return nil, nil
	}
	return p, nil
}

func TestAuthenticate(t *testing.T) {
	m := NewJWTManager(secret, time.Hour)
	admin := &models.Admin{ID: primitive.NewObjectID(), Email: "admin@civicfix.local"}
	resolver := &stubResolver{principals: map[primitive.ObjectID]*models.Principal{
		admin.ID: {ID: admin.ID, Kind: models.PrincipalAdmin, Email: admin.Email, IsAdmin: true},
	}}
	a := NewAuthenticator(m, resolver, nil)
	token, err := m.GenerateAdminToken(admin)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := a.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin)

	_, err = a.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.calls, "second call is served from cache")

	a.Forget(models.PrincipalAdmin, admin.ID)
	delete(resolver.principals, admin.ID)
	_, err = a.Authenticate(ctx, token)
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestAuthenticateFailures(t *testing.T) {
	m := NewJWTManager(secret, time.Hour)
	resolver := &stubResolver{}
	a := NewAuthenticator(m, resolver, nil)
	ctx := context.Background()

	_, err := a.Authenticate(ctx, "")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = a.Authenticate(ctx, "garbage")
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	token, err := m.GenerateUserToken(&models.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)
	resolver.err = errors.New("mongo down")
	_, err = a.Authenticate(ctx, token)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
