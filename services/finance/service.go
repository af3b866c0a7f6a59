// Package finance keeps the yearly budget ledger of districts, towns and
// panchayats.
package finance

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/validation"
	"go.uber.org/zap"
)

type Store interface {
	// UpsertFinance writes f keyed by (entityType, entityId, year) and
	// returns the stored row.
	UpsertFinance(ctx context.Context, f *models.Finance) (*models.Finance, error)
	ListFinances(ctx context.Context, entityType models.EntityType, entityID int, fromYear, toYear int) ([]*models.Finance, error)
	DeleteFinance(ctx context.Context, entityType models.EntityType, entityID, year int) (bool, error)
}

type UpsertRequest struct {
	EntityType string                    `json:"entityType" validate:"required,entitytype"`
	EntityID   int                       `json:"entityId" validate:"required"`
	EntityName string                    `json:"entityName" validate:"required"`
	DistrictID *int                      `json:"districtId"`
	TownID     *int                      `json:"townId"`
	Year       int                       `json:"year" validate:"required,min=1900,max=2200"`
	Allocation *float64                  `json:"allocation" validate:"required,min=0"`
	Categories *models.SpendingCategories `json:"categories" validate:"required"`
}

type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger.Named("finance"), now: time.Now}
}

func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (*models.Finance, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	et := models.EntityType(req.EntityType)
	if et != models.EntityDistrict && req.DistrictID == nil {
		return nil, apperr.Invalid("districtId", "districtId required for town or panchayat")
	}
	if et == models.EntityPanchayat && req.TownID == nil {
		return nil, apperr.Invalid("townId", "townId required for panchayat")
	}

	now := s.now().UTC()
	f := &models.Finance{
		EntityType: et,
		EntityID:   req.EntityID,
		EntityName: req.EntityName,
		DistrictID: req.DistrictID,
		TownID:     req.TownID,
		Year:       req.Year,
		Allocation: *req.Allocation,
		Categories: *req.Categories,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.Settle()
	if f.Spent > f.Allocation {
		return nil, apperr.Invalid("categories", "total spent cannot exceed allocation")
	}

	stored, err := s.store.UpsertFinance(ctx, f)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Conflict("financial data for this entity and year already exists")
		}
		return nil, apperr.Internal("failed to save financial data", err)
	}

	s.logger.Info("finance saved",
		zap.String("entity_type", string(et)),
		zap.Int("entity_id", f.EntityID),
		zap.Int("year", f.Year))
	return stored, nil
}

// List returns rows year-ascending. The year range applies only when both
// bounds are given.
func (s *Service) List(ctx context.Context, entityType, entityID, startYear, endYear string) ([]*models.Finance, error) {
	et := models.EntityType(entityType)
	if !et.IsValid() {
		return nil, apperr.Invalid("entityType", "invalid entity type")
	}
	id, err := strconv.Atoi(entityID)
	if err != nil {
		return nil, apperr.Invalid("entityId", "invalid entityId")
	}

	from, to := 0, 0
	if startYear != "" && endYear != "" {
		if from, err = strconv.Atoi(startYear); err != nil {
			return nil, apperr.Invalid("startYear", "invalid startYear")
		}
		if to, err = strconv.Atoi(endYear); err != nil {
			return nil, apperr.Invalid("endYear", "invalid endYear")
		}
	}

	list, err := s.store.ListFinances(ctx, et, id, from, to)
	if err != nil {
		return nil, apperr.Internal("failed to list financial data", err)
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, entityType, entityID, year string) error {
	et := models.EntityType(entityType)
	if !et.IsValid() {
		return apperr.Invalid("entityType", "invalid entity type")
	}
	id, err := strconv.Atoi(entityID)
	if err != nil {
		return apperr.Invalid("entityId", "invalid entityId")
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return apperr.Invalid("year", "invalid year")
	}

	deleted, err := s.store.DeleteFinance(ctx, et, id, y)
	if err != nil {
		return apperr.Internal("failed to delete financial data", err)
	}
	if !deleted {
		return apperr.NotFound("financial data not found")
	}
	s.logger.Info("finance deleted", zap.String("entity_type", entityType), zap.Int("entity_id", id), zap.Int("year", y))
	return nil
}
