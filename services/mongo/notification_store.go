package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/mongo/command"
	"github.com/civicfix/civicback/services/mongo/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type NotificationService struct {
	*MongoService
}

func NewNotificationService(mongoService *MongoService) *NotificationService {
	return &NotificationService{MongoService: mongoService}
}

func (s *NotificationService) collection() *mongo.Collection {
	return s.GetCollection(notificationsCollection)
}

func (s *NotificationService) InsertNotification(ctx context.Context, n *models.Notification) error {
	if err := command.InsertOne(ctx, s.collection(), n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID primitive.ObjectID, status models.NotificationStatus) ([]*models.Notification, error) {
	filter := query.NewBuilder().
		Where("userId", userID).
		WhereIf(status != "", "status", status).
		Build()

	var list []*models.Notification
	if err := query.FindSorted(ctx, s.collection(), filter, query.Newest("createdAt"), &list); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return list, nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, id, userID primitive.ObjectID, at time.Time) (*models.Notification, error) {
	update := command.NewUpdateBuilder().
		Set("status", models.NotificationStatusRead).
		Set("readAt", at).
		Build()

	var n models.Notification
	ok, err := command.FindOneAndUpdate(ctx, s.collection(), bson.M{"_id": id, "userId": userID}, update, &n)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return found(&n, ok, nil)
}
