// Package report handles citizen-submitted reports and their admin review.
package report

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/media"
	"github.com/civicfix/civicback/services/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxImages = 3

type Store interface {
	InsertReport(ctx context.Context, r *models.Report) error
	GetReport(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
	UpdateReport(ctx context.Context, id primitive.ObjectID, changes models.ReportChanges) (*models.Report, error)
}

// LocationInput accepts either an object or the same object encoded as a
// JSON string, which multipart-style clients send.
type LocationInput struct {
	Coordinates []float64 `json:"coordinates" validate:"len=2"`
	Address     string    `json:"address"`
}

func (l *LocationInput) UnmarshalJSON(b []byte) error {
	type plain LocationInput
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		b = []byte(s)
	}
	return json.Unmarshal(b, (*plain)(l))
}

type CreateRequest struct {
	Title        string         `json:"title" validate:"required"`
	Description  string         `json:"description" validate:"required"`
	WardNumber   string         `json:"wardNumber" validate:"required"`
	Category     string         `json:"category" validate:"required,reportcategory"`
	Urgency      string         `json:"urgency" validate:"omitempty,urgency"`
	Location     *LocationInput `json:"location" validate:"required"`
	ContactName  string         `json:"contactName"`
	ContactPhone string         `json:"contactPhone"`
	ContactEmail string         `json:"contactEmail" validate:"omitempty,email"`
	Images       []string       `json:"images" validate:"max=3"`
}

type UpdateRequest struct {
	Title       *string                 `json:"title" validate:"omitempty,min=1"`
	Description *string                 `json:"description" validate:"omitempty,min=1"`
	WardNumber  *string                 `json:"wardNumber" validate:"omitempty,min=1"`
	Category    *string                 `json:"category" validate:"omitempty,reportcategory"`
	Urgency     *string                 `json:"urgency" validate:"omitempty,urgency"`
	Status      *string                 `json:"status" validate:"omitempty,reportstatus"`
	Resolution  *string                 `json:"resolution"`
	Comments    *[]models.ReportComment `json:"comments"`
}

type Notifier interface {
	NotifyReportResolved(ctx context.Context, report *models.Report) error
}

type Service struct {
	store    Store
	uploader *media.Uploader
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store Store, uploader *media.Uploader, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		uploader: uploader,
		notifier: notifier,
		logger:   logger.Named("reports"),
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, p *models.Principal, req CreateRequest) (*models.Report, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.WardNumber = strings.TrimSpace(req.WardNumber)
	if len(req.Images) > maxImages {
		return nil, apperr.Invalid("images", "maximum 3 images allowed")
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	images, err := s.uploader.UploadAll(ctx, "reports", req.Images)
	if err != nil {
		return nil, err
	}

	urgency := models.UrgencyMedium
	if req.Urgency != "" {
		urgency = models.Urgency(req.Urgency)
	}

	now := s.now().UTC()
	r := &models.Report{
		Title:       req.Title,
		Description: req.Description,
		WardNumber:  req.WardNumber,
		Category:    models.ReportCategory(req.Category),
		Urgency:     urgency,
		Location: models.Location{
			Type:        "Point",
			Coordinates: req.Location.Coordinates,
			Address:     req.Location.Address,
		},
		Images:       images,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		UserID:       p.ID,
		Status:       models.StatusPending,
		Comments:     []models.ReportComment{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.InsertReport(ctx, r); err != nil {
		return nil, apperr.Internal("failed to create report", err)
	}

	s.logger.Info("report created",
		zap.String("report", r.ID.Hex()),
		zap.String("user", p.ID.Hex()),
		zap.Int("images", len(images)))
	return r, nil
}

// ListOwn returns the caller's reports newest-first.
func (s *Service) ListOwn(ctx context.Context, p *models.Principal) ([]*models.Report, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	id := p.ID
	list, err := s.store.ListReports(ctx, models.ReportFilter{UserID: &id})
	if err != nil {
		return nil, apperr.Internal("failed to list reports", err)
	}
	return list, nil
}

func (s *Service) ListAll(ctx context.Context, status string) ([]*models.Report, error) {
	st := models.ReportStatus(status)
	if st != "" && !st.IsValid() {
		return nil, apperr.Invalid("status", "invalid status")
	}
	list, err := s.store.ListReports(ctx, models.ReportFilter{Status: st})
	if err != nil {
		return nil, apperr.Internal("failed to list reports", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	r, err := s.store.GetReport(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load report", err)
	}
	if r == nil {
		return nil, apperr.NotFound("report not found")
	}
	return r, nil
}

// Update applies an admin review. A report in a terminal status keeps it;
// moving to resolved stamps the resolution time and reviewer.
func (s *Service) Update(ctx context.Context, p *models.Principal, id primitive.ObjectID, req UpdateRequest) (*models.Report, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := models.ReportChanges{
		ReportPatch: models.ReportPatch{
			Title:       req.Title,
			Description: req.Description,
			WardNumber:  req.WardNumber,
			Resolution:  req.Resolution,
			Comments:    req.Comments,
		},
		UpdatedAt: s.now().UTC(),
	}
	if req.Category != nil {
		c := models.ReportCategory(*req.Category)
		changes.Category = &c
	}
	if req.Urgency != nil {
		u := models.Urgency(*req.Urgency)
		changes.Urgency = &u
	}
	if req.Status != nil {
		st := models.ReportStatus(*req.Status)
		if st != current.Status {
			if current.Status.IsTerminal() {
				return nil, apperr.Conflict("report is already " + string(current.Status))
			}
			changes.Status = &st
			if st == models.StatusResolved {
				at := changes.UpdatedAt
				by := p.DisplayName()
				changes.ResolvedAt = &at
				changes.ResolvedBy = &by
			}
		}
	}

	updated, err := s.store.UpdateReport(ctx, id, changes)
	if err != nil {
		return nil, apperr.Internal("failed to update report", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("report not found")
	}

	s.logger.Info("report updated",
		zap.String("report", id.Hex()),
		zap.String("status", string(updated.Status)),
		zap.String("by", p.DisplayName()))

	if changes.ResolvedAt != nil && s.notifier != nil {
		if err := s.notifier.NotifyReportResolved(ctx, updated); err != nil {
			s.logger.Warn("failed to notify report owner", zap.String("report", id.Hex()), zap.Error(err))
		}
	}
	return updated, nil
}
