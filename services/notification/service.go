// Package notification keeps per-user notifications about their reports.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Store interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID primitive.ObjectID, status models.NotificationStatus) ([]*models.Notification, error)
	// MarkNotificationRead returns nil when no notification with that id
	// belongs to userID.
	MarkNotificationRead(ctx context.Context, id, userID primitive.ObjectID, at time.Time) (*models.Notification, error)
}

type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger.Named("notifications"), now: time.Now}
}

// NotifyReportResolved tells the report's owner that it was resolved.
func (s *Service) NotifyReportResolved(ctx context.Context, report *models.Report) error {
	if report.UserID.IsZero() {
		return nil
	}
	reportID := report.ID
	n := &models.Notification{
		UserID:    report.UserID,
		ReportID:  &reportID,
		Type:      models.NotificationTypeReportResolved,
		Title:     "Report resolved",
		Message:   fmt.Sprintf("Your report %q has been resolved by %s.", report.Title, report.ResolvedBy),
		Status:    models.NotificationStatusUnread,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	s.logger.Debug("notification created",
		zap.String("notification", n.ID.Hex()),
		zap.String("user", n.UserID.Hex()))
	return nil
}

// List returns the caller's notifications newest-first.
func (s *Service) List(ctx context.Context, p *models.Principal, status string) ([]*models.Notification, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	st := models.NotificationStatus(status)
	if st != "" && !st.IsValid() {
		return nil, apperr.Invalid("status", "invalid status")
	}
	list, err := s.store.ListNotifications(ctx, p.ID, st)
	if err != nil {
		return nil, apperr.Internal("failed to list notifications", err)
	}
	return list, nil
}

func (s *Service) MarkRead(ctx context.Context, p *models.Principal, id primitive.ObjectID) (*models.Notification, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	n, err := s.store.MarkNotificationRead(ctx, id, p.ID, s.now().UTC())
	if err != nil {
		return nil, apperr.Internal("failed to update notification", err)
	}
	if n == nil {
		return nil, apperr.NotFound("notification not found")
	}
	return n, nil
}
