package mongo

import (
	"context"
	"fmt"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/mongo/command"
	"github.com/civicfix/civicback/services/mongo/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type DiscussionService struct {
	*MongoService
}

func NewDiscussionService(mongoService *MongoService) *DiscussionService {
	return &DiscussionService{MongoService: mongoService}
}

func (s *DiscussionService) collection() *mongo.Collection {
	return s.GetCollection(discussionsCollection)
}

func (s *DiscussionService) ListDiscussions(ctx context.Context, f models.DiscussionFilter) ([]*models.Discussion, error) {
	b := query.NewBuilder().
		WhereIf(f.Category != "", "category", f.Category).
		Search(f.Search, "title", "content", "tags")

	sort := bson.D{{Key: "_id", Value: 1}}
	switch f.Tab {
	case models.TabTrending:
		sort = bson.D{{Key: "likes", Value: -1}, {Key: "timePosted", Value: -1}}
	case models.TabRecent:
		sort = bson.D{{Key: "timePosted", Value: -1}}
	case models.TabBookmarked:
		if f.UserID != nil {
			b.Where("isBookmarked", *f.UserID)
		}
	}

	var list []*models.Discussion
	if err := query.FindSorted(ctx, s.collection(), b.Build(), sort, &list); err != nil {
		return nil, fmt.Errorf("failed to list discussions: %w", err)
	}
	return list, nil
}

func (s *DiscussionService) GetDiscussion(ctx context.Context, id primitive.ObjectID) (*models.Discussion, error) {
	var d models.Discussion
	ok, err := query.FindByID(ctx, s.collection(), id, &d)
	if err != nil {
		return nil, fmt.Errorf("failed to get discussion: %w", err)
	}
	return found(&d, ok, nil)
}

func (s *DiscussionService) InsertDiscussion(ctx context.Context, d *models.Discussion) error {
	if err := command.InsertOne(ctx, s.collection(), d); err != nil {
		return fmt.Errorf("failed to create discussion: %w", err)
	}
	return nil
}

func (s *DiscussionService) update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Discussion, error) {
	var d models.Discussion
	ok, err := command.UpdateByID(ctx, s.collection(), id, update, &d)
	if err != nil {
		return nil, fmt.Errorf("failed to update discussion: %w", err)
	}
	return found(&d, ok, nil)
}

func (s *DiscussionService) LikeDiscussion(ctx context.Context, id primitive.ObjectID) (*models.Discussion, error) {
	return s.update(ctx, id, command.NewUpdateBuilder().Inc("likes", 1).Build())
}

func (s *DiscussionService) SetBookmark(ctx context.Context, id, userID primitive.ObjectID, bookmarked bool) (*models.Discussion, error) {
	u := command.NewUpdateBuilder()
	if bookmarked {
		u.AddToSet("isBookmarked", userID)
	} else {
		u.Pull("isBookmarked", userID)
	}
	return s.update(ctx, id, u.Build())
}

func (s *DiscussionService) AddComment(ctx context.Context, id primitive.ObjectID, c models.DiscussionComment) (*models.Discussion, error) {
	return s.update(ctx, id, command.NewUpdateBuilder().Push("comments", c).Build())
}

type FeedbackService struct {
	*MongoService
}

func NewFeedbackService(mongoService *MongoService) *FeedbackService {
	return &FeedbackService{MongoService: mongoService}
}

func (s *FeedbackService) InsertFeedback(ctx context.Context, f *models.Feedback) error {
	if err := command.InsertOne(ctx, s.GetCollection(feedbackCollection), f); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}
