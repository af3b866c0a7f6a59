package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscussionCategory string

const (
	DiscussionGeneral    DiscussionCategory = "general"
	DiscussionBudgeting  DiscussionCategory = "budgeting"
	DiscussionSavings    DiscussionCategory = "savings"
	DiscussionInvestment DiscussionCategory = "investment"
	DiscussionDebt       DiscussionCategory = "debt"
	DiscussionTaxes      DiscussionCategory = "taxes"
	DiscussionRetirement DiscussionCategory = "retirement"
)

func (c DiscussionCategory) IsValid() bool {
	switch c {
	case DiscussionGeneral, DiscussionBudgeting, DiscussionSavings, DiscussionInvestment,
		DiscussionDebt, DiscussionTaxes, DiscussionRetirement:
		return true
	default:
		return false
	}
}

type DiscussionComment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user" json:"user"`
	Content    string             `bson:"content" json:"content"`
	TimePosted time.Time          `bson:"timePosted" json:"timePosted"`
	Likes      int                `bson:"likes" json:"likes"`
}

type Discussion struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID   `bson:"user" json:"user"`
	Category     DiscussionCategory   `bson:"category" json:"category"`
	Title        string               `bson:"title" json:"title"`
	Content      string               `bson:"content" json:"content"`
	TimePosted   time.Time            `bson:"timePosted" json:"timePosted"`
	Likes        int                  `bson:"likes" json:"likes"`
	Shares       int                  `bson:"shares" json:"shares"`
	BookmarkedBy []primitive.ObjectID `bson:"isBookmarked" json:"isBookmarked"`
	Tags         []string             `bson:"tags" json:"tags"`
	Comments     []DiscussionComment  `bson:"comments" json:"comments"`
}

type DiscussionTab string

const (
	TabTrending   DiscussionTab = "trending"
	TabRecent     DiscussionTab = "recent"
	TabBookmarked DiscussionTab = "bookmarked"
)

type DiscussionFilter struct {
	Category string
	Search   string
	Tab      DiscussionTab
	UserID   *primitive.ObjectID
}

type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Feedback  string             `bson:"feedback" json:"feedback"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
