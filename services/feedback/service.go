package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/validation"
	"go.uber.org/zap"
)

type Store interface {
	InsertFeedback(ctx context.Context, f *models.Feedback) error
}

type SubmitRequest struct {
	Feedback string `json:"feedback" validate:"required,max=5000"`
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger.Named("feedback")}
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) error {
	req.Feedback = strings.TrimSpace(req.Feedback)
	if err := validation.Struct(req); err != nil {
		return err
	}
	f := &models.Feedback{Feedback: req.Feedback, CreatedAt: time.Now().UTC()}
	if err := s.store.InsertFeedback(ctx, f); err != nil {
		return apperr.Internal("failed to save feedback", err)
	}
	s.logger.Info("feedback submitted", zap.String("feedback", f.ID.Hex()))
	return nil
}
