package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// JWTClaims identify the principal by collection (Kind) and id (Subject).
// Privileges are never read from the token itself.
type JWTClaims struct {
	Kind  models.PrincipalKind `json:"kind"`
	Email string               `json:"email,omitempty"`
	Name  string               `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{secretKey: []byte(secretKey), tokenDuration: tokenDuration, now: time.Now}
}

func (m *JWTManager) GenerateUserToken(u *models.User) (string, error) {
	return m.generate(models.PrincipalUser, u.ID, u.Email, u.Name)
}

func (m *JWTManager) GenerateAdminToken(a *models.Admin) (string, error) {
	return m.generate(models.PrincipalAdmin, a.ID, a.Email, a.Name)
}

func (m *JWTManager) generate(kind models.PrincipalKind, id primitive.ObjectID, email, name string) (string, error) {
	now := m.now()
	claims := JWTClaims{
		Kind:  kind,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

func (m *JWTManager) VerifyToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
