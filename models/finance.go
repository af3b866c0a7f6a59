package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EntityType string

const (
	EntityDistrict  EntityType = "district"
	EntityTown      EntityType = "town"
	EntityPanchayat EntityType = "panchayat"
)

func (e EntityType) IsValid() bool {
	return e == EntityDistrict || e == EntityTown || e == EntityPanchayat
}

type SpendingCategories struct {
	Infrastructure float64 `bson:"infrastructure" json:"infrastructure" validate:"min=0"`
	Education      float64 `bson:"education" json:"education" validate:"min=0"`
	Healthcare     float64 `bson:"healthcare" json:"healthcare" validate:"min=0"`
	Welfare        float64 `bson:"welfare" json:"welfare" validate:"min=0"`
	Administration float64 `bson:"administration" json:"administration" validate:"min=0"`
	Others         float64 `bson:"others" json:"others" validate:"min=0"`
}

func (c SpendingCategories) Total() float64 {
	return c.Infrastructure + c.Education + c.Healthcare + c.Welfare + c.Administration + c.Others
}

// Finance is one yearly ledger row for a government entity. The triple
// (EntityType, EntityID, Year) is unique.
type Finance struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EntityType EntityType         `bson:"entityType" json:"entityType"`
	EntityID   int                `bson:"entityId" json:"entityId"`
	EntityName string             `bson:"entityName" json:"entityName"`
	DistrictID *int               `bson:"districtId,omitempty" json:"districtId,omitempty"`
	TownID     *int               `bson:"townId,omitempty" json:"townId,omitempty"`
	Year       int                `bson:"year" json:"year"`
	Allocation float64            `bson:"allocation" json:"allocation"`
	Spent      float64            `bson:"spent" json:"spent"`
	Balance    float64            `bson:"balance" json:"balance"`
	Categories SpendingCategories `bson:"categories" json:"categories"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Settle derives Spent and Balance from the category amounts.
func (f *Finance) Settle() {
	f.Spent = f.Categories.Total()
	f.Balance = f.Allocation - f.Spent
}
