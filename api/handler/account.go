package handler

import (
	"net/http"

	"github.com/civicfix/civicback/middleware"
	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/account"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (h *Handler) register(c *gin.Context) {
	var req account.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Accounts.Register(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully", "userId": u.ID})
}

func (h *Handler) login(c *gin.Context) {
	var req account.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Accounts.Login(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	token, err := h.Tokens.GenerateUserToken(u)
	if err != nil {
		middleware.AbortWithError(c, apperr.Internal("failed to issue token", err))
		return
	}
	h.logger().Info("user logged in", zap.String("user", u.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

func (h *Handler) adminLogin(c *gin.Context) {
	var req account.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Accounts.AdminLogin(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	token, err := h.Tokens.GenerateAdminToken(a)
	if err != nil {
		middleware.AbortWithError(c, apperr.Internal("failed to issue token", err))
		return
	}
	h.logger().Info("admin logged in", zap.String("admin", a.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"token": token, "admin": a})
}

func (h *Handler) getProfile(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	u, err := h.Accounts.Profile(c.Request.Context(), principal(c), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) updateProfile(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var patch models.ProfilePatch
	if !bindJSON(c, &patch) {
		return
	}
	u, err := h.Accounts.UpdateProfile(c.Request.Context(), principal(c), id, patch)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	h.forget(u.ID)
	c.JSON(http.StatusOK, u)
}

func (h *Handler) uploadProfileImage(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var req account.ImageRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Accounts.UploadProfileImage(c.Request.Context(), principal(c), id, req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profileImage": u.ProfileImage, "user": u})
}

func (h *Handler) forget(id primitive.ObjectID) {
	if f, ok := h.Auth.(Forgetter); ok {
		f.Forget(models.PrincipalUser, id)
	}
}
