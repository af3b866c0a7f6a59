package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/mongo/command"
	"github.com/civicfix/civicback/services/mongo/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type ReportService struct {
	*MongoService
}

func NewReportService(mongoService *MongoService) *ReportService {
	return &ReportService{MongoService: mongoService}
}

func (s *ReportService) collection() *mongo.Collection {
	return s.GetCollection(reportsCollection)
}

func (s *ReportService) InsertReport(ctx context.Context, r *models.Report) error {
	if err := command.InsertOne(ctx, s.collection(), r); err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	s.logger.Debug("report inserted", zap.String("report", r.ID.Hex()))
	return nil
}

func (s *ReportService) GetReport(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var r models.Report
	ok, err := query.FindByID(ctx, s.collection(), id, &r)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return found(&r, ok, nil)
}

func (s *ReportService) FindReportsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Report, error) {
	var list []*models.Report
	if err := query.FindByIDs(ctx, s.collection(), ids, &list); err != nil {
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}
	return list, nil
}

func (s *ReportService) ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	b := query.NewBuilder().WhereIf(filter.Status != "", "status", filter.Status)
	if filter.UserID != nil {
		b.Where("user", *filter.UserID)
	}

	var list []*models.Report
	if err := query.FindSorted(ctx, s.collection(), b.Build(), query.Newest("createdAt"), &list); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return list, nil
}

func (s *ReportService) UpdateReport(ctx context.Context, id primitive.ObjectID, changes models.ReportChanges) (*models.Report, error) {
	u := command.NewUpdateBuilder().Set("updatedAt", changes.UpdatedAt)
	command.SetPtr(u, "title", changes.Title)
	command.SetPtr(u, "description", changes.Description)
	command.SetPtr(u, "wardNumber", changes.WardNumber)
	command.SetPtr(u, "category", changes.Category)
	command.SetPtr(u, "urgency", changes.Urgency)
	command.SetPtr(u, "status", changes.Status)
	command.SetPtr(u, "resolution", changes.Resolution)
	command.SetPtr(u, "comments", changes.Comments)
	command.SetPtr(u, "resolvedAt", changes.ResolvedAt)
	command.SetPtr(u, "resolvedBy", changes.ResolvedBy)

	var r models.Report
	ok, err := command.UpdateByID(ctx, s.collection(), id, u.Build(), &r)
	if err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return found(&r, ok, nil)
}

// SetResolved moves the report to resolved and stamps who resolved it.
// An empty resolution leaves any existing one in place.
func (s *ReportService) SetResolved(ctx context.Context, id primitive.ObjectID, resolvedBy string, resolvedAt time.Time, resolution string) (*models.Report, error) {
	u := command.NewUpdateBuilder().
		Set("status", models.StatusResolved).
		Set("resolvedAt", resolvedAt).
		Set("resolvedBy", resolvedBy).
		Set("updatedAt", resolvedAt)
	if resolution != "" {
		u.Set("resolution", resolution)
	}

	var r models.Report
	ok, err := command.UpdateByID(ctx, s.collection(), id, u.Build(), &r)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve report: %w", err)
	}
	if ok {
		s.logger.Debug("report resolved", zap.String("report", id.Hex()), zap.String("by", resolvedBy))
	}
	return found(&r, ok, nil)
}
