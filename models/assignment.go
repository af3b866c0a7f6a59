package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VolunteerAssignment binds one volunteer to one report. IssueID is unique
// across the collection.
type VolunteerAssignment struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID                 primitive.ObjectID `bson:"issueId" json:"issueId"`
	Category                SkillCategory      `bson:"category" json:"category"`
	Field                   Field              `bson:"field" json:"field"`
	MainVolunteer           primitive.ObjectID `bson:"mainVolunteer" json:"mainVolunteer"`
	SubVolunteersCount      int                `bson:"subVolunteersCount" json:"subVolunteersCount"`
	WorkDescription         string             `bson:"workDescription,omitempty" json:"workDescription,omitempty"`
	EstimatedCompletionDate time.Time          `bson:"estimatedCompletionDate" json:"estimatedCompletionDate"`
	VolunteerCompleted      bool               `bson:"volunteerCompleted" json:"volunteerCompleted"`
	CompletionNotes         string             `bson:"completionNotes" json:"completionNotes"`
	CreatedAt               time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ReportRef is the shallow report view embedded in assignment listings.
type ReportRef struct {
	ID     primitive.ObjectID `json:"id"`
	Title  string             `json:"title"`
	Status ReportStatus       `json:"status"`
}

// VolunteerRef is the shallow volunteer view embedded in assignment listings.
type VolunteerRef struct {
	ID                primitive.ObjectID `json:"id"`
	Name              string             `json:"name"`
	Skills            []SkillCategory    `json:"skills"`
	SpecializedFields []Field            `json:"specializedFields"`
}

func NewVolunteerRef(v *Volunteer) *VolunteerRef {
	if v == nil {
		return nil
	}
	return &VolunteerRef{ID: v.ID, Name: v.Name, Skills: v.Skills, SpecializedFields: v.SpecializedFields}
}

type AssignmentView struct {
	VolunteerAssignment `bson:",inline"`
	Issue               *ReportRef    `json:"issue,omitempty"`
	Volunteer           *VolunteerRef `json:"volunteer,omitempty"`
	MainVolunteerName   string        `json:"mainVolunteerName,omitempty"`
}

// AssignmentChanges is the whitelist of assignment fields that may change
// after creation. Nil fields are left untouched.
type AssignmentChanges struct {
	Category                *SkillCategory
	Field                   *Field
	MainVolunteer           *primitive.ObjectID
	SubVolunteersCount      *int
	WorkDescription         *string
	EstimatedCompletionDate *time.Time
	CompletionNotes         *string
	UpdatedAt               time.Time
}

// Apply overlays the changes on a.
func (c AssignmentChanges) Apply(a *VolunteerAssignment) {
	if c.Category != nil {
		a.Category = *c.Category
	}
	if c.Field != nil {
		a.Field = *c.Field
	}
	if c.MainVolunteer != nil {
		a.MainVolunteer = *c.MainVolunteer
	}
	if c.SubVolunteersCount != nil {
		a.SubVolunteersCount = *c.SubVolunteersCount
	}
	if c.WorkDescription != nil {
		a.WorkDescription = *c.WorkDescription
	}
	if c.EstimatedCompletionDate != nil {
		a.EstimatedCompletionDate = *c.EstimatedCompletionDate
	}
	if c.CompletionNotes != nil {
		a.CompletionNotes = *c.CompletionNotes
	}
	a.UpdatedAt = c.UpdatedAt
}
