package assignment

import (
	"context"
	"time"

	"github.com/civicfix/civicback/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store persists assignments. Lookups return (nil, nil) when the document
// does not exist. Insert must reject a second assignment for the same report
// with apperr.ErrDuplicate.
type Store interface {
	ListAssignments(ctx context.Context) ([]*models.VolunteerAssignment, error)
	ListAssignmentsByIssue(ctx context.Context, issueID primitive.ObjectID) ([]*models.VolunteerAssignment, error)
	GetAssignment(ctx context.Context, id primitive.ObjectID) (*models.VolunteerAssignment, error)
	FindAssignmentByIssue(ctx context.Context, issueID primitive.ObjectID) (*models.VolunteerAssignment, error)
	InsertAssignment(ctx context.Context, a *models.VolunteerAssignment) error
	UpdateAssignment(ctx context.Context, id primitive.ObjectID, changes models.AssignmentChanges) (*models.VolunteerAssignment, error)
	// MarkVolunteerCompleted flips the completion latch only while it is
	// still false. It returns nil when no pending assignment matched.
	MarkVolunteerCompleted(ctx context.Context, id primitive.ObjectID, notes *string, at time.Time) (*models.VolunteerAssignment, error)
	DeleteAssignment(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type ReportStore interface {
	GetReport(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	SetResolved(ctx context.Context, id primitive.ObjectID, resolvedBy string, resolvedAt time.Time, resolution string) (*models.Report, error)
}

type VolunteerStore interface {
	GetVolunteer(ctx context.Context, id primitive.ObjectID) (*models.Volunteer, error)
}

// Lookup resolves referenced entities for listings. Missing ids are simply
// absent from the returned maps.
type Lookup interface {
	Volunteers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Volunteer, error)
	Reports(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Report, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

type Notifier interface {
	NotifyReportResolved(ctx context.Context, report *models.Report) error
}

// storeLookup resolves references one document at a time.
type storeLookup struct {
	reports    ReportStore
	volunteers VolunteerStore
}

func (l storeLookup) Volunteers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Volunteer, error) {
	out := make(map[primitive.ObjectID]*models.Volunteer, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		v, err := l.volunteers.GetVolunteer(ctx, id)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out[id] = v
		}
	}
	return out, nil
}

func (l storeLookup) Reports(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Report, error) {
	out := make(map[primitive.ObjectID]*models.Report, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		r, err := l.reports.GetReport(ctx, id)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out[id] = r
		}
	}
	return out, nil
}
