package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
	StatusRejected   ReportStatus = "rejected"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	default:
		return false
	}
}

type ReportCategory string

const (
	CategoryRoadDamage           ReportCategory = "Road Damage"
	CategoryGarbageCollection    ReportCategory = "Garbage Collection"
	CategoryStreetLighting       ReportCategory = "Street Lighting"
	CategoryWaterSupply          ReportCategory = "Water Supply"
	CategoryDrainageIssues       ReportCategory = "Drainage Issues"
	CategoryPublicPropertyDamage ReportCategory = "Public Property Damage"
	CategoryIllegalConstruction  ReportCategory = "Illegal Construction"
	CategoryStrayAnimals         ReportCategory = "Stray Animals"
	CategoryOther                ReportCategory = "Other"
)

func (c ReportCategory) IsValid() bool {
	switch c {
	case CategoryRoadDamage, CategoryGarbageCollection, CategoryStreetLighting,
		CategoryWaterSupply, CategoryDrainageIssues, CategoryPublicPropertyDamage,
		CategoryIllegalConstruction, CategoryStrayAnimals, CategoryOther:
		return true
	default:
		return false
	}
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	default:
		return false
	}
}

// Location is stored as a GeoJSON point; Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
	Address     string    `json:"address" bson:"address"`
}

type Image struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
}

type ReportComment struct {
	Text      string    `json:"text" bson:"text"`
	Author    string    `json:"author" bson:"author"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type Report struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	WardNumber   string             `json:"wardNumber" bson:"wardNumber"`
	Category     ReportCategory     `json:"category" bson:"category"`
	Urgency      Urgency            `json:"urgency" bson:"urgency"`
	Location     Location           `json:"location" bson:"location"`
	Images       []Image            `json:"images" bson:"images"`
	ContactName  string             `json:"contactName,omitempty" bson:"contactName,omitempty"`
	ContactPhone string             `json:"contactPhone,omitempty" bson:"contactPhone,omitempty"`
	ContactEmail string             `json:"contactEmail,omitempty" bson:"contactEmail,omitempty"`
	UserID       primitive.ObjectID `json:"user" bson:"user"`
	Status       ReportStatus       `json:"status" bson:"status"`
	ResolvedAt   *time.Time         `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	ResolvedBy   string             `json:"resolvedBy,omitempty" bson:"resolvedBy,omitempty"`
	Resolution   string             `json:"resolution,omitempty" bson:"resolution,omitempty"`
	Comments     []ReportComment    `json:"comments" bson:"comments"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ReportPatch is the whitelist of report fields an administrator may change.
type ReportPatch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	WardNumber  *string          `json:"wardNumber"`
	Category    *ReportCategory  `json:"category"`
	Urgency     *Urgency         `json:"urgency"`
	Status      *ReportStatus    `json:"status"`
	Resolution  *string          `json:"resolution"`
	Comments    *[]ReportComment `json:"comments"`
}

// ReportChanges is a ReportPatch resolved into store writes, including the
// resolution stamp set when the status becomes resolved.
type ReportChanges struct {
	ReportPatch
	ResolvedAt *time.Time
	ResolvedBy *string
	UpdatedAt  time.Time
}

func (c ReportChanges) Apply(r *Report) {
	if c.Title != nil {
		r.Title = *c.Title
	}
	if c.Description != nil {
		r.Description = *c.Description
	}
	if c.WardNumber != nil {
		r.WardNumber = *c.WardNumber
	}
	if c.Category != nil {
		r.Category = *c.Category
	}
	if c.Urgency != nil {
		r.Urgency = *c.Urgency
	}
	if c.Status != nil {
		r.Status = *c.Status
	}
	if c.Resolution != nil {
		r.Resolution = *c.Resolution
	}
	if c.Comments != nil {
		r.Comments = *c.Comments
	}
	if c.ResolvedAt != nil {
		t := *c.ResolvedAt
		r.ResolvedAt = &t
	}
	if c.ResolvedBy != nil {
		r.ResolvedBy = *c.ResolvedBy
	}
	r.UpdatedAt = c.UpdatedAt
}

// IsTerminal reports whether no further status change is allowed.
func (s ReportStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusRejected
}

type ReportFilter struct {
	UserID *primitive.ObjectID
	Status ReportStatus
}
