package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	volunteersCollection    = "volunteers"
	reportsCollection       = "reports"
	assignmentsCollection   = "volunteer_assignments"
	usersCollection         = "users"
	adminsCollection        = "admins"
	notificationsCollection = "notifications"
	financesCollection      = "finances"
	discussionsCollection   = "discussions"
	feedbackCollection      = "feedback"
)

type MongoService struct {
	db     *mongo.Database
	logger *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *MongoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoService{db: db, logger: logger.Named("mongo")}
}

// Connect dials uri and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

func (s *MongoService) GetDatabase() *mongo.Database {
	return s.db
}

func (s *MongoService) GetCollection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// EnsureIndexes creates the indexes the stores rely on, unique ones
// included. It is safe to call on every start.
func (s *MongoService) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		assignmentsCollection: {
			{Keys: bson.D{{Key: "issueId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		volunteersCollection: {
			{Keys: bson.D{{Key: "contact", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "skills", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		adminsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		reportsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		financesCollection: {
			{Keys: bson.D{{Key: "entityType", Value: 1}, {Key: "entityId", Value: 1}, {Key: "year", Value: 1}}, Options: unique},
		},
		discussionsCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "timePosted", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := s.GetCollection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	s.logger.Info("indexes ensured", zap.Int("collections", len(indexes)))
	return nil
}
