package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventAssignmentCreated            EventType = "assignment.created"
	EventAssignmentUpdated            EventType = "assignment.updated"
	EventAssignmentVolunteerCompleted EventType = "assignment.volunteer_completed"
	EventAssignmentDeleted            EventType = "assignment.deleted"
	EventReportResolved               EventType = "report.resolved"
)

// Event is a lifecycle notification published after a successful mutation.
type Event struct {
	Type         EventType          `json:"type"`
	AssignmentID primitive.ObjectID `json:"assignmentId"`
	IssueID      primitive.ObjectID `json:"issueId"`
	Actor        string             `json:"actor"`
	At           time.Time          `json:"at"`
}
