package auth

import (
	"testing"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const secret = "0123456789abcdef"

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager(secret, time.Hour)
	u := &models.User{ID: primitive.NewObjectID(), Email: "ravi@example.com", Name: "Ravi"}

	token, err := m.GenerateUserToken(u)
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.PrincipalUser, claims.Kind)
	assert.Equal(t, u.ID.Hex(), claims.Subject)
	assert.Equal(t, "ravi@example.com", claims.Email)

	a := &models.Admin{ID: primitive.NewObjectID(), Email: "admin@civicfix.local"}
	token, err = m.GenerateAdminToken(a)
	require.NoError(t, err)
	claims, err = m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.PrincipalAdmin, claims.Kind)
}

func TestVerifyExpired(t *testing.T) {
	m := NewJWTManager(secret, time.Minute)
	issued := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateUserToken(&models.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.VerifyToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	m := NewJWTManager(secret, time.Hour)
	other := NewJWTManager("fedcba9876543210", time.Hour)
	token, err := other.GenerateUserToken(&models.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{Kind: models.PrincipalAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.VerifyToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
