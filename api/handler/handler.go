// Package handler exposes the services over the REST routes under /api.
package handler

import (
	"context"
	"errors"
	"io"

	"github.com/civicfix/civicback/api/auth"
	"github.com/civicfix/civicback/middleware"
	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/account"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/assignment"
	"github.com/civicfix/civicback/services/discussion"
	"github.com/civicfix/civicback/services/feedback"
	"github.com/civicfix/civicback/services/finance"
	"github.com/civicfix/civicback/services/notification"
	"github.com/civicfix/civicback/services/report"
	"github.com/civicfix/civicback/services/volunteer"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EventSource streams lifecycle events until ctx is done.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan models.Event, error)
}

// Forgetter drops cached principals after a profile change.
type Forgetter interface {
	Forget(kind models.PrincipalKind, id primitive.ObjectID)
}

type Handler struct {
	Accounts      *account.Service
	Tokens        *auth.JWTManager
	Auth          middleware.Authenticator
	Volunteers    *volunteer.Directory
	Reports       *report.Service
	Assignments   *assignment.Engine
	Notifications *notification.Service
	Finances      *finance.Service
	Discussions   *discussion.Service
	Feedback      *feedback.Service
	// Events is optional; without it the live feed answers 503.
	Events EventSource
	// Loaders is optional per-request middleware for assignment listings.
	Loaders gin.HandlerFunc
	Logger  *zap.Logger
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	authed := middleware.RequireAuth(h.Auth)
	admin := []gin.HandlerFunc{authed, middleware.RequireAdmin()}

	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.POST("/admin/login", h.adminLogin)

	users := api.Group("/user/:id", authed)
	users.GET("", h.getProfile)
	users.PUT("", h.updateProfile)
	users.POST("/upload-image", h.uploadProfileImage)

	volunteers := api.Group("/volunteers", admin...)
	volunteers.GET("", h.listVolunteers)
	volunteers.GET("/:id", h.getVolunteer)
	volunteers.POST("", h.createVolunteer)
	volunteers.PUT("/:id", h.updateVolunteer)
	volunteers.DELETE("/:id", h.deleteVolunteer)

	reports := api.Group("/reports", authed)
	reports.POST("", h.createReport)
	reports.GET("", h.listOwnReports)

	adminReports := api.Group("/admin/reports", admin...)
	adminReports.GET("", h.listReports)
	adminReports.GET("/:id", h.getReport)
	adminReports.PUT("/:id", h.updateReport)

	api.GET("/admin/events", append(admin, h.streamEvents)...)

	assignments := api.Group("/volunteer-assignments", admin...)
	if h.Loaders != nil {
		assignments.Use(h.Loaders)
	}
	assignments.GET("", h.listAssignments)
	assignments.GET("/issue/:issueId", h.listAssignmentsByIssue)
	assignments.POST("", h.createAssignment)
	assignments.POST("/volunteer-complete/:id", h.completeByVolunteer)
	assignments.POST("/complete/:id", h.confirmResolved)
	assignments.PUT("/:id", h.updateAssignment)
	assignments.DELETE("/:id", h.deleteAssignment)

	notifications := api.Group("/notifications", authed)
	notifications.GET("", h.listNotifications)
	notifications.POST("/:id/read", h.markNotificationRead)

	finances := api.Group("/finances")
	finances.GET("/:entityType/:entityId", h.listFinances)
	finances.POST("", append(admin, h.upsertFinance)...)
	finances.DELETE("/:entityType/:entityId/:year", append(admin, h.deleteFinance)...)

	discussions := api.Group("/discussions")
	discussions.GET("", h.listDiscussions)
	discussions.POST("", authed, h.createDiscussion)
	discussions.POST("/:id/like", authed, h.likeDiscussion)
	discussions.POST("/:id/bookmark", authed, h.bookmarkDiscussion)
	discussions.POST("/:id/comments", authed, h.commentDiscussion)

	api.POST("/feedback", h.submitFeedback)
}

func principal(c *gin.Context) *models.Principal {
	return middleware.PrincipalFrom(c.Request.Context())
}

// objectID parses a path parameter. On failure it writes the error and
// returns false.
func objectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		middleware.AbortWithError(c, apperr.Invalid(name, "invalid "+name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindJSON decodes the request body into v. An empty body is accepted and
// leaves v untouched.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		middleware.AbortWithError(c, apperr.Invalid("body", "invalid request body"))
		return false
	}
	return true
}
