package mongo

import (
	"context"
	"fmt"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/mongo/command"
	"github.com/civicfix/civicback/services/mongo/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type VolunteerService struct {
	*MongoService
}

func NewVolunteerService(mongoService *MongoService) *VolunteerService {
	return &VolunteerService{MongoService: mongoService}
}

func (s *VolunteerService) collection() *mongo.Collection {
	return s.GetCollection(volunteersCollection)
}

func (s *VolunteerService) ListVolunteers(ctx context.Context, category models.SkillCategory) ([]*models.Volunteer, error) {
	filter := query.NewBuilder().
		WhereIf(category != "", "skills", category).
		Build()

	var list []*models.Volunteer
	if err := query.FindSorted(ctx, s.collection(), filter, bson.D{{Key: "name", Value: 1}}, &list); err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	return list, nil
}

func (s *VolunteerService) GetVolunteer(ctx context.Context, id primitive.ObjectID) (*models.Volunteer, error) {
	var v models.Volunteer
	ok, err := query.FindByID(ctx, s.collection(), id, &v)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	return found(&v, ok, nil)
}

func (s *VolunteerService) FindVolunteersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Volunteer, error) {
	var list []*models.Volunteer
	if err := query.FindByIDs(ctx, s.collection(), ids, &list); err != nil {
		return nil, fmt.Errorf("failed to get volunteers: %w", err)
	}
	return list, nil
}

func (s *VolunteerService) FindVolunteerByContact(ctx context.Context, contact string) (*models.Volunteer, error) {
	var v models.Volunteer
	ok, err := query.FindOne(ctx, s.collection(), bson.M{"contact": contact}, &v)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	return found(&v, ok, nil)
}

func (s *VolunteerService) InsertVolunteer(ctx context.Context, v *models.Volunteer) error {
	if err := command.InsertOne(ctx, s.collection(), v); err != nil {
		return fmt.Errorf("failed to create volunteer: %w", err)
	}
	s.logger.Debug("volunteer inserted", zap.String("volunteer", v.ID.Hex()))
	return nil
}

func (s *VolunteerService) UpdateVolunteer(ctx context.Context, id primitive.ObjectID, changes models.VolunteerChanges) (*models.Volunteer, error) {
	u := command.NewUpdateBuilder().Set("updatedAt", changes.UpdatedAt)
	command.SetPtr(u, "name", changes.Name)
	command.SetPtr(u, "availability", changes.Availability)
	command.SetPtr(u, "contact", changes.Contact)
	if changes.Skills != nil {
		u.Set("skills", changes.Skills)
	}
	if changes.SpecializedFields != nil {
		u.Set("specializedFields", changes.SpecializedFields)
	}

	var v models.Volunteer
	ok, err := command.UpdateByID(ctx, s.collection(), id, u.Build(), &v)
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer: %w", err)
	}
	return found(&v, ok, nil)
}

func (s *VolunteerService) DeleteVolunteer(ctx context.Context, id primitive.ObjectID) (bool, error) {
	deleted, err := command.DeleteByID(ctx, s.collection(), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete volunteer: %w", err)
	}
	return deleted, nil
}
