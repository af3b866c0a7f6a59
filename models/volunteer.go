package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SkillCategory string

const (
	SkillElectrical   SkillCategory = "Electrical"
	SkillPlumbing     SkillCategory = "Plumbing"
	SkillRoadRepair   SkillCategory = "Road Repair"
	SkillConstruction SkillCategory = "Construction"
	SkillCarpentry    SkillCategory = "Carpentry"
	SkillGarbageClean SkillCategory = "Garbage Clean"
)

type Field string

const (
	FieldWiringRepair           Field = "Wiring Repair"
	FieldLightFixtureInstall    Field = "Light Fixture Installation"
	FieldCircuitBreakerIssues   Field = "Circuit Breaker Issues"
	FieldGeneratorMaintenance   Field = "Generator Maintenance"
	FieldPipeRepair             Field = "Pipe Repair"
	FieldDrainageIssues         Field = "Drainage Issues"
	FieldWaterSupply            Field = "Water Supply"
	FieldFixtureInstallation    Field = "Fixture Installation"
	FieldPotholeFixing          Field = "Pothole Fixing"
	FieldSidewalkRepair         Field = "Sidewalk Repair"
	FieldStreetSignInstallation Field = "Street Sign Installation"
	FieldRoadMarking            Field = "Road Marking"
	FieldWallRepair             Field = "Wall Repair"
	FieldFoundationWork         Field = "Foundation Work"
	FieldStructuralSupport      Field = "Structural Support"
	FieldBuildingEnhancement    Field = "Building Enhancement"
	FieldWoodworkRepair         Field = "Woodwork Repair"
	FieldFurnitureMaking        Field = "Furniture Making"
	FieldDoorInstallation       Field = "Door Installation"
	FieldCabinetWork            Field = "Cabinet Work"
	FieldTrashCollection        Field = "Trash Collection"
	FieldStreetSweeping         Field = "Street Sweeping"
	FieldRecyclingPickup        Field = "Recycling Pickup"
	FieldWasteDisposal          Field = "Waste Disposal"
)

// CategoryFields is the single source of truth for the skill taxonomy:
// every specialized field belongs to exactly one category.
var CategoryFields = map[SkillCategory][]Field{
	SkillElectrical:   {FieldWiringRepair, FieldLightFixtureInstall, FieldCircuitBreakerIssues, FieldGeneratorMaintenance},
	SkillPlumbing:     {FieldPipeRepair, FieldDrainageIssues, FieldWaterSupply, FieldFixtureInstallation},
	SkillRoadRepair:   {FieldPotholeFixing, FieldSidewalkRepair, FieldStreetSignInstallation, FieldRoadMarking},
	SkillConstruction: {FieldWallRepair, FieldFoundationWork, FieldStructuralSupport, FieldBuildingEnhancement},
	SkillCarpentry:    {FieldWoodworkRepair, FieldFurnitureMaking, FieldDoorInstallation, FieldCabinetWork},
	SkillGarbageClean: {FieldTrashCollection, FieldStreetSweeping, FieldRecyclingPickup, FieldWasteDisposal},
}

var fieldCategory = func() map[Field]SkillCategory {
	m := make(map[Field]SkillCategory)
	for category, fields := range CategoryFields {
		for _, f := range fields {
			m[f] = category
		}
	}
	return m
}()

func (c SkillCategory) IsValid() bool {
	_, ok := CategoryFields[c]
	return ok
}

func (f Field) IsValid() bool {
	_, ok := fieldCategory[f]
	return ok
}

// Category returns the category that owns the field.
func (f Field) Category() (SkillCategory, bool) {
	c, ok := fieldCategory[f]
	return c, ok
}

// BelongsTo reports whether f is grouped under c.
func (f Field) BelongsTo(c SkillCategory) bool {
	owner, ok := fieldCategory[f]
	return ok && owner == c
}

type Volunteer struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Skills            []SkillCategory    `bson:"skills" json:"skills"`
	SpecializedFields []Field            `bson:"specializedFields" json:"specializedFields"`
	Availability      string             `bson:"availability" json:"availability"`
	Contact           string             `bson:"contact" json:"contact"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (v *Volunteer) HasSkill(c SkillCategory) bool {
	for _, s := range v.Skills {
		if s == c {
			return true
		}
	}
	return false
}

// Accepts reports whether the volunteer may work the field. An empty
// specialized-field set is unrestricted.
func (v *Volunteer) Accepts(f Field) bool {
	if len(v.SpecializedFields) == 0 {
		return true
	}
	for _, sf := range v.SpecializedFields {
		if sf == f {
			return true
		}
	}
	return false
}

// VolunteerChanges is the whitelist of volunteer fields that may change.
type VolunteerChanges struct {
	Name              *string
	Skills            []SkillCategory
	SpecializedFields []Field
	Availability      *string
	Contact           *string
	UpdatedAt         time.Time
}

func (c VolunteerChanges) Apply(v *Volunteer) {
	if c.Name != nil {
		v.Name = *c.Name
	}
	if c.Skills != nil {
		v.Skills = c.Skills
	}
	if c.SpecializedFields != nil {
		v.SpecializedFields = c.SpecializedFields
	}
	if c.Availability != nil {
		v.Availability = *c.Availability
	}
	if c.Contact != nil {
		v.Contact = *c.Contact
	}
	v.UpdatedAt = c.UpdatedAt
}
