// Package volunteer manages the directory of volunteers that can be
// assigned to reports.
package volunteer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store returns (nil, nil) from lookups that match nothing. Writes that
// collide on contact return apperr.ErrDuplicate.
type Store interface {
	ListVolunteers(ctx context.Context, category models.SkillCategory) ([]*models.Volunteer, error)
	GetVolunteer(ctx context.Context, id primitive.ObjectID) (*models.Volunteer, error)
	FindVolunteerByContact(ctx context.Context, contact string) (*models.Volunteer, error)
	InsertVolunteer(ctx context.Context, v *models.Volunteer) error
	UpdateVolunteer(ctx context.Context, id primitive.ObjectID, changes models.VolunteerChanges) (*models.Volunteer, error)
	DeleteVolunteer(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type CreateRequest struct {
	Name              string   `json:"name" validate:"required"`
	Skills            []string `json:"skills" validate:"required,min=1,dive,skill"`
	SpecializedFields []string `json:"specializedFields" validate:"omitempty,dive,specialty"`
	Availability      string   `json:"availability" validate:"required"`
	Contact           string   `json:"contact" validate:"required"`
}

type UpdateRequest struct {
	Name              *string  `json:"name" validate:"omitempty,min=1"`
	Skills            []string `json:"skills" validate:"omitempty,min=1,dive,skill"`
	SpecializedFields []string `json:"specializedFields" validate:"omitempty,dive,specialty"`
	Availability      *string  `json:"availability" validate:"omitempty,min=1"`
	Contact           *string  `json:"contact" validate:"omitempty,min=1"`
}

type Directory struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewDirectory(store Store, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{store: store, logger: logger.Named("volunteers"), now: time.Now}
}

// Find lists volunteers, optionally only those with the given skill.
func (d *Directory) Find(ctx context.Context, category string) ([]*models.Volunteer, error) {
	c := models.SkillCategory(strings.TrimSpace(category))
	if c != "" && !c.IsValid() {
		return nil, apperr.Invalid("category", "invalid category")
	}
	list, err := d.store.ListVolunteers(ctx, c)
	if err != nil {
		return nil, apperr.Internal("failed to list volunteers", err)
	}
	return list, nil
}

func (d *Directory) Get(ctx context.Context, id primitive.ObjectID) (*models.Volunteer, error) {
	v, err := d.store.GetVolunteer(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load volunteer", err)
	}
	if v == nil {
		return nil, apperr.NotFound("volunteer not found")
	}
	return v, nil
}

func (d *Directory) Create(ctx context.Context, req CreateRequest) (*models.Volunteer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Availability = strings.TrimSpace(req.Availability)
	req.Contact = strings.TrimSpace(req.Contact)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	existing, err := d.store.FindVolunteerByContact(ctx, req.Contact)
	if err != nil {
		return nil, apperr.Internal("failed to check contact", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("volunteer with this contact already exists")
	}

	fields := toFields(req.SpecializedFields)
	if fields == nil {
		fields = []models.Field{}
	}

	now := d.now().UTC()
	v := &models.Volunteer{
		Name:              req.Name,
		Skills:            toSkills(req.Skills),
		SpecializedFields: fields,
		Availability:      req.Availability,
		Contact:           req.Contact,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := d.store.InsertVolunteer(ctx, v); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Conflict("volunteer with this contact already exists")
		}
		return nil, apperr.Internal("failed to create volunteer", err)
	}

	d.logger.Info("volunteer created", zap.String("volunteer", v.ID.Hex()), zap.String("name", v.Name))
	return v, nil
}

func (d *Directory) Update(ctx context.Context, id primitive.ObjectID, req UpdateRequest) (*models.Volunteer, error) {
	req.Name = trimmed(req.Name)
	req.Availability = trimmed(req.Availability)
	req.Contact = trimmed(req.Contact)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	current, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Contact != nil && *req.Contact != current.Contact {
		other, err := d.store.FindVolunteerByContact(ctx, *req.Contact)
		if err != nil {
			return nil, apperr.Internal("failed to check contact", err)
		}
		if other != nil && other.ID != id {
			return nil, apperr.Conflict("contact is already in use by another volunteer")
		}
	}

	changes := models.VolunteerChanges{
		Name:              req.Name,
		Skills:            toSkills(req.Skills),
		SpecializedFields: toFields(req.SpecializedFields),
		Availability:      req.Availability,
		Contact:           req.Contact,
		UpdatedAt:         d.now().UTC(),
	}
	updated, err := d.store.UpdateVolunteer(ctx, id, changes)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Conflict("contact is already in use by another volunteer")
		}
		return nil, apperr.Internal("failed to update volunteer", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("volunteer not found")
	}

	d.logger.Info("volunteer updated", zap.String("volunteer", id.Hex()))
	return updated, nil
}

func (d *Directory) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := d.store.DeleteVolunteer(ctx, id)
	if err != nil {
		return apperr.Internal("failed to delete volunteer", err)
	}
	if !deleted {
		return apperr.NotFound("volunteer not found")
	}
	d.logger.Info("volunteer deleted", zap.String("volunteer", id.Hex()))
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// toSkills keeps nil as nil so an absent list stays unchanged on update.
func toSkills(in []string) []models.SkillCategory {
	if in == nil {
		return nil
	}
	out := make([]models.SkillCategory, 0, len(in))
	for _, s := range in {
		out = append(out, models.SkillCategory(s))
	}
	return out
}

func toFields(in []string) []models.Field {
	if in == nil {
		return nil
	}
	out := make([]models.Field, 0, len(in))
	for _, f := range in {
		out = append(out, models.Field(f))
	}
	return out
}
