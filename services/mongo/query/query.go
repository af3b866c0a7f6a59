package query

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindOne decodes the first match into result. It reports false, without
// error, when nothing matched.
func FindOne[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, result *T) (bool, error) {
	err := collection.FindOne(ctx, filter).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}

func FindByID[T any](ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, result *T) (bool, error) {
	return FindOne(ctx, collection, bson.M{"_id": id}, result)
}

func FindMany[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, results *[]T, opts ...*options.FindOptions) error {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return err
	}
	if *results == nil {
		*results = []T{}
	}
	return nil
}

func FindByIDs[T any](ctx context.Context, collection *mongo.Collection, ids []primitive.ObjectID, results *[]T) error {
	return FindMany(ctx, collection, bson.M{"_id": bson.M{"$in": ids}}, results)
}

// FindSorted returns matches ordered by the given keys.
func FindSorted[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, sort bson.D, results *[]T) error {
	return FindMany(ctx, collection, filter, results, options.Find().SetSort(sort))
}

// Newest orders by creation time, then by id so documents created in the
// same instant keep insertion order reversed.
func Newest(createdField string) bson.D {
	return bson.D{{Key: createdField, Value: -1}, {Key: "_id", Value: -1}}
}
