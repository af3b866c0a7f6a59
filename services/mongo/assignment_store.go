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
	"go.uber.org/zap"
)

// AssignmentService relies on the unique issueId index from EnsureIndexes
// to reject a second assignment for the same report.
type AssignmentService struct {
	*MongoService
}

func NewAssignmentService(mongoService *MongoService) *AssignmentService {
	return &AssignmentService{MongoService: mongoService}
}

func (s *AssignmentService) collection() *mongo.Collection {
	return s.GetCollection(assignmentsCollection)
}

func (s *AssignmentService) ListAssignments(ctx context.Context) ([]*models.VolunteerAssignment, error) {
	var list []*models.VolunteerAssignment
	if err := query.FindSorted(ctx, s.collection(), bson.M{}, query.Newest("createdAt"), &list); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return list, nil
}

func (s *AssignmentService) ListAssignmentsByIssue(ctx context.Context, issueID primitive.ObjectID) ([]*models.VolunteerAssignment, error) {
	var list []*models.VolunteerAssignment
	if err := query.FindSorted(ctx, s.collection(), bson.M{"issueId": issueID}, query.Newest("createdAt"), &list); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return list, nil
}

func (s *AssignmentService) GetAssignment(ctx context.Context, id primitive.ObjectID) (*models.VolunteerAssignment, error) {
	var a models.VolunteerAssignment
	ok, err := query.FindByID(ctx, s.collection(), id, &a)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return found(&a, ok, nil)
}

func (s *AssignmentService) FindAssignmentByIssue(ctx context.Context, issueID primitive.ObjectID) (*models.VolunteerAssignment, error) {
	var a models.VolunteerAssignment
	ok, err := query.FindOne(ctx, s.collection(), bson.M{"issueId": issueID}, &a)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return found(&a, ok, nil)
}

func (s *AssignmentService) InsertAssignment(ctx context.Context, a *models.VolunteerAssignment) error {
	if err := command.InsertOne(ctx, s.collection(), a); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	s.logger.Debug("assignment inserted", zap.String("assignment", a.ID.Hex()), zap.String("issue", a.IssueID.Hex()))
	return nil
}

func (s *AssignmentService) UpdateAssignment(ctx context.Context, id primitive.ObjectID, changes models.AssignmentChanges) (*models.VolunteerAssignment, error) {
	u := command.NewUpdateBuilder().Set("updatedAt", changes.UpdatedAt)
	command.SetPtr(u, "category", changes.Category)
	command.SetPtr(u, "field", changes.Field)
	command.SetPtr(u, "mainVolunteer", changes.MainVolunteer)
	command.SetPtr(u, "subVolunteersCount", changes.SubVolunteersCount)
	command.SetPtr(u, "workDescription", changes.WorkDescription)
	command.SetPtr(u, "estimatedCompletionDate", changes.EstimatedCompletionDate)
	command.SetPtr(u, "completionNotes", changes.CompletionNotes)

	var a models.VolunteerAssignment
	ok, err := command.UpdateByID(ctx, s.collection(), id, u.Build(), &a)
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}
	return found(&a, ok, nil)
}

// MarkVolunteerCompleted matches only assignments still pending so two
// concurrent completions cannot both succeed.
func (s *AssignmentService) MarkVolunteerCompleted(ctx context.Context, id primitive.ObjectID, notes *string, at time.Time) (*models.VolunteerAssignment, error) {
	u := command.NewUpdateBuilder().
		Set("volunteerCompleted", true).
		Set("updatedAt", at)
	command.SetPtr(u, "completionNotes", notes)

	filter := bson.M{"_id": id, "volunteerCompleted": false}
	var a models.VolunteerAssignment
	ok, err := command.FindOneAndUpdate(ctx, s.collection(), filter, u.Build(), &a)
	if err != nil {
		return nil, fmt.Errorf("failed to complete assignment: %w", err)
	}
	return found(&a, ok, nil)
}

func (s *AssignmentService) DeleteAssignment(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := command.DeleteByID(ctx, s.collection(), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete assignment: %w", err)
	}
	return deleted, nil
}
