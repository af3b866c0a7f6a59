package assignment

import (
	"strings"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateRequest struct {
	IssueID                 string  `json:"issueId" validate:"required,mongodb"`
	Category                string  `json:"category" validate:"required,skill"`
	Field                   string  `json:"field" validate:"required,specialty"`
	MainVolunteer           string  `json:"mainVolunteer" validate:"required,mongodb"`
	SubVolunteersCount      *int    `json:"subVolunteersCount" validate:"required,min=0"`
	WorkDescription         string  `json:"workDescription"`
	EstimatedCompletionDate string  `json:"estimatedCompletionDate" validate:"required,isodate"`
	VolunteerCompleted      *bool   `json:"volunteerCompleted"`
	CompletionNotes         *string `json:"completionNotes"`
}

// UpdateRequest carries the fields an administrator may change. Anything
// not listed here, identifiers and timestamps included, cannot be written.
type UpdateRequest struct {
	Category                *string `json:"category" validate:"omitempty,skill"`
	Field                   *string `json:"field" validate:"omitempty,specialty"`
	MainVolunteer           *string `json:"mainVolunteer" validate:"omitempty,mongodb"`
	SubVolunteersCount      *int    `json:"subVolunteersCount" validate:"omitempty,min=0"`
	WorkDescription         *string `json:"workDescription"`
	EstimatedCompletionDate *string `json:"estimatedCompletionDate" validate:"omitempty,isodate"`
	VolunteerCompleted      *bool   `json:"volunteerCompleted"`
	CompletionNotes         *string `json:"completionNotes"`
}

type CompleteRequest struct {
	CompletionNotes *string `json:"completionNotes"`
}

// draft is a CreateRequest after field-level validation.
type draft struct {
	issueID  primitive.ObjectID
	category models.SkillCategory
	field    models.Field
	mainID   primitive.ObjectID
	due      time.Time
}

func (e *Engine) parseCreate(req CreateRequest) (*draft, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	d := &draft{
		category: models.SkillCategory(req.Category),
		field:    models.Field(req.Field),
	}
	d.issueID, _ = primitive.ObjectIDFromHex(req.IssueID)
	d.mainID, _ = primitive.ObjectIDFromHex(req.MainVolunteer)
	d.due, _ = validation.ParseDate(req.EstimatedCompletionDate)

	fields := map[string]string{}
	if !d.field.BelongsTo(d.category) {
		fields["field"] = "field does not belong to category " + req.Category
	}
	if e.beforeToday(d.due) {
		fields["estimatedCompletionDate"] = "estimated completion date cannot be in the past"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	return d, nil
}

func (e *Engine) parseUpdate(req UpdateRequest, current *models.VolunteerAssignment) (models.AssignmentChanges, error) {
	var changes models.AssignmentChanges
	if err := validation.Struct(req); err != nil {
		return changes, err
	}

	if req.Category != nil {
		c := models.SkillCategory(*req.Category)
		changes.Category = &c
	}
	if req.Field != nil {
		f := models.Field(*req.Field)
		changes.Field = &f
	}
	if req.MainVolunteer != nil {
		id, _ := primitive.ObjectIDFromHex(*req.MainVolunteer)
		changes.MainVolunteer = &id
	}
	changes.SubVolunteersCount = req.SubVolunteersCount
	changes.WorkDescription = trimmed(req.WorkDescription)
	changes.CompletionNotes = trimmed(req.CompletionNotes)

	fields := map[string]string{}
	if req.EstimatedCompletionDate != nil {
		due, _ := validation.ParseDate(*req.EstimatedCompletionDate)
		if e.beforeToday(due) {
			fields["estimatedCompletionDate"] = "estimated completion date cannot be in the past"
		}
		changes.EstimatedCompletionDate = &due
	}

	category, field := effective(current, changes)
	if !field.BelongsTo(category) {
		fields["field"] = "field does not belong to category " + string(category)
	}
	if len(fields) > 0 {
		return changes, apperr.Validation(fields)
	}
	return changes, nil
}

func effective(current *models.VolunteerAssignment, changes models.AssignmentChanges) (models.SkillCategory, models.Field) {
	category, field := current.Category, current.Field
	if changes.Category != nil {
		category = *changes.Category
	}
	if changes.Field != nil {
		field = *changes.Field
	}
	return category, field
}

// beforeToday compares the calendar day of t, read in its own zone, with
// today's UTC day.
func (e *Engine) beforeToday(t time.Time) bool {
	return civilDay(t).Before(civilDay(e.now().UTC()))
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// nonBlank trims s and drops it when nothing is left, so blank notes keep
// what is already stored.
func nonBlank(s *string) *string {
	s = trimmed(s)
	if s == nil || *s == "" {
		return nil
	}
	return s
}
