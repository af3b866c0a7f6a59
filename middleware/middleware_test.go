package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenTable map[string]*models.Principal

func (t tokenTable) Authenticate(_ context.Context, token string) (*models.Principal, error) {
	if p, ok := t[token]; ok {
		return p, nil
	}
	return nil, apperr.Unauthenticated("invalid token")
}

func newRouter(logger *zap.Logger) (*gin.Engine, *models.Principal, *models.Principal) {
	admin := &models.Principal{ID: primitive.NewObjectID(), IsAdmin: true}
	citizen := &models.Principal{ID: primitive.NewObjectID()}
	tokens := tokenTable{"admin-token": admin, "citizen-token": citizen}

	r := gin.New()
	r.Use(Recovery(logger), AccessLog(logger))
	r.GET("/me", RequireAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, PrincipalFrom(c.Request.Context()))
	})
	r.GET("/admin", RequireAuth(tokens), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/boom", func(c *gin.Context) {
		AbortWithError(c, errors.New("disk full"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("unreachable")
	})
	r.GET("/invalid", func(c *gin.Context) {
		AbortWithError(c, apperr.Invalid("category", "invalid category"))
	})
	return r, admin, citizen
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r, _, citizen := newRouter(zap.NewNop())

	w := do(r, "/me", "Bearer citizen-token")
	require.Equal(t, http.StatusOK, w.Code)
	var p models.Principal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, citizen.ID, p.ID)

	assert.Equal(t, http.StatusOK, do(r, "/me?token=citizen-token", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Basic citizen-token").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer nope").Code)
}

func TestRequireAdmin(t *testing.T) {
	r, _, _ := newRouter(zap.NewNop())

	assert.Equal(t, http.StatusNoContent, do(r, "/admin", "Bearer admin-token").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer citizen-token").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
}

func TestAbortWithError(t *testing.T) {
	r, _, _ := newRouter(zap.NewNop())

	w := do(r, "/invalid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","kind":"validation","fields":{"category":"invalid category"}}`, w.Body.String())

	w = do(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusFor(apperr.KindUnauthenticated))
	assert.Equal(t, http.StatusForbidden, StatusFor(apperr.KindForbidden))
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperr.KindValidation))
	assert.Equal(t, http.StatusNotFound, StatusFor(apperr.KindNotFound))
	assert.Equal(t, http.StatusConflict, StatusFor(apperr.KindConflict))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(apperr.KindInternal))
}

func TestAccessLogAndRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r, _, _ := newRouter(zap.New(core))

	do(r, "/boom", "")
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["error"], "disk full")

	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
