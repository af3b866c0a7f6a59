package mongo

import (
	"context"
	"fmt"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/mongo/command"
	"github.com/civicfix/civicback/services/mongo/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type FinanceService struct {
	*MongoService
}

func NewFinanceService(mongoService *MongoService) *FinanceService {
	return &FinanceService{MongoService: mongoService}
}

func (s *FinanceService) collection() *mongo.Collection {
	return s.GetCollection(financesCollection)
}

func (s *FinanceService) UpsertFinance(ctx context.Context, f *models.Finance) (*models.Finance, error) {
	filter := bson.M{"entityType": f.EntityType, "entityId": f.EntityID, "year": f.Year}
	u := command.NewUpdateBuilder().
		Set("entityName", f.EntityName).
		Set("allocation", f.Allocation).
		Set("spent", f.Spent).
		Set("balance", f.Balance).
		Set("categories", f.Categories).
		Set("updatedAt", f.UpdatedAt).
		SetOnInsert("createdAt", f.CreatedAt)
	if f.DistrictID != nil {
		u.Set("districtId", *f.DistrictID)
	} else {
		u.Unset("districtId")
	}
	if f.TownID != nil {
		u.Set("townId", *f.TownID)
	} else {
		u.Unset("townId")
	}

	var stored models.Finance
	if err := command.Upsert(ctx, s.collection(), filter, u.Build(), &stored); err != nil {
		return nil, fmt.Errorf("failed to save finance: %w", err)
	}
	return &stored, nil
}

// ListFinances returns rows year-ascending. A zero fromYear and toYear
// means every year.
func (s *FinanceService) ListFinances(ctx context.Context, entityType models.EntityType, entityID int, fromYear, toYear int) ([]*models.Finance, error) {
	b := query.NewBuilder().Where("entityType", entityType).Where("entityId", entityID)
	if fromYear != 0 || toYear != 0 {
		b.WhereRange("year", fromYear, toYear)
	}

	var list []*models.Finance
	if err := query.FindSorted(ctx, s.collection(), b.Build(), bson.D{{Key: "year", Value: 1}}, &list); err != nil {
		return nil, fmt.Errorf("failed to list finances: %w", err)
	}
	return list, nil
}

func (s *FinanceService) DeleteFinance(ctx context.Context, entityType models.EntityType, entityID, year int) (bool, error) {
	deleted, err := command.DeleteOne(ctx, s.collection(), bson.M{"entityType": entityType, "entityId": entityID, "year": year})
	if err != nil {
		return false, fmt.Errorf("failed to delete finance: %w", err)
	}
	return deleted, nil
}
