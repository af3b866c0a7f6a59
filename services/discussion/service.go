// Package discussion runs the community discussion board.
package discussion

import (
	"context"
	"strings"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store lookups and mutations return (nil, nil) for an unknown id.
type Store interface {
	ListDiscussions(ctx context.Context, filter models.DiscussionFilter) ([]*models.Discussion, error)
	GetDiscussion(ctx context.Context, id primitive.ObjectID) (*models.Discussion, error)
	InsertDiscussion(ctx context.Context, d *models.Discussion) error
	LikeDiscussion(ctx context.Context, id primitive.ObjectID) (*models.Discussion, error)
	SetBookmark(ctx context.Context, id, userID primitive.ObjectID, bookmarked bool) (*models.Discussion, error)
	AddComment(ctx context.Context, id primitive.ObjectID, c models.DiscussionComment) (*models.Discussion, error)
}

type CreateRequest struct {
	Category string   `json:"category" validate:"required,topic"`
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Tags     []string `json:"tags"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required"`
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
	return &Service{store: store, logger: logger.Named("discussions"), now: time.Now}
}

// List applies the board filters. "all" or an empty category matches
// every category; the bookmarked tab needs a user id.
func (s *Service) List(ctx context.Context, category, search, tab, userID string) ([]*models.Discussion, error) {
	filter := models.DiscussionFilter{
		Search: strings.TrimSpace(search),
		Tab:    models.DiscussionTab(tab),
	}
	if category != "" && category != "all" {
		if !models.DiscussionCategory(category).IsValid() {
			return nil, apperr.Invalid("category", "invalid category")
		}
		filter.Category = category
	}
	switch filter.Tab {
	case "", models.TabTrending, models.TabRecent:
	case models.TabBookmarked:
		if userID == "" {
			filter.Tab = ""
			break
		}
		id, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return nil, apperr.Invalid("userId", "invalid userId")
		}
		filter.UserID = &id
	default:
		return nil, apperr.Invalid("tab", "invalid tab")
	}

	list, err := s.store.ListDiscussions(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to list discussions", err)
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, p *models.Principal, req CreateRequest) (*models.Discussion, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	d := &models.Discussion{
		UserID:       p.ID,
		Category:     models.DiscussionCategory(req.Category),
		Title:        req.Title,
		Content:      req.Content,
		TimePosted:   s.now().UTC(),
		BookmarkedBy: []primitive.ObjectID{},
		Tags:         tags,
		Comments:     []models.DiscussionComment{},
	}
	if err := s.store.InsertDiscussion(ctx, d); err != nil {
		return nil, apperr.Internal("failed to create discussion", err)
	}
	s.logger.Info("discussion created", zap.String("discussion", d.ID.Hex()), zap.String("user", p.ID.Hex()))
	return d, nil
}

func (s *Service) Like(ctx context.Context, id primitive.ObjectID) (*models.Discussion, error) {
	d, err := s.store.LikeDiscussion(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to like discussion", err)
	}
	if d == nil {
		return nil, apperr.NotFound("discussion not found")
	}
	return d, nil
}

// ToggleBookmark adds or removes the caller from the bookmark set.
func (s *Service) ToggleBookmark(ctx context.Context, p *models.Principal, id primitive.ObjectID) (*models.Discussion, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	current, err := s.store.GetDiscussion(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load discussion", err)
	}
	if current == nil {
		return nil, apperr.NotFound("discussion not found")
	}

	bookmarked := true
	for _, uid := range current.BookmarkedBy {
		if uid == p.ID {
			bookmarked = false
			break
		}
	}

	d, err := s.store.SetBookmark(ctx, id, p.ID, bookmarked)
	if err != nil {
		return nil, apperr.Internal("failed to bookmark discussion", err)
	}
	if d == nil {
		return nil, apperr.NotFound("discussion not found")
	}
	return d, nil
}

func (s *Service) Comment(ctx context.Context, p *models.Principal, id primitive.ObjectID, req CommentRequest) (*models.Discussion, error) {
	if p == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c := models.DiscussionComment{
		ID:         primitive.NewObjectID(),
		UserID:     p.ID,
		Content:    req.Content,
		TimePosted: s.now().UTC(),
	}
	d, err := s.store.AddComment(ctx, id, c)
	if err != nil {
		return nil, apperr.Internal("failed to add comment", err)
	}
	if d == nil {
		return nil, apperr.NotFound("discussion not found")
	}
	return d, nil
}
