package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeReportResolved NotificationType = "REPORT_RESOLVED"
	NotificationTypeReportUpdated  NotificationType = "REPORT_UPDATED"
	NotificationTypeAssignment     NotificationType = "ASSIGNMENT"
)

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "UNREAD"
	NotificationStatusRead   NotificationStatus = "READ"
)

func (s NotificationStatus) IsValid() bool {
	return s == NotificationStatusUnread || s == NotificationStatusRead
}

type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	ReportID  *primitive.ObjectID `bson:"reportId,omitempty" json:"reportId,omitempty"`
	Type      NotificationType    `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Status    NotificationStatus  `bson:"status" json:"status"`
	ReadAt    *time.Time          `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
