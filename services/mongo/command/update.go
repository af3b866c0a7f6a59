package command

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindOneAndUpdate applies update to the first match and decodes the
// document as it is after the update. It reports false when nothing matched.
func FindOneAndUpdate[T any](ctx context.Context, collection *mongo.Collection, filter, update bson.M, result *T) (bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, wrapWriteError(err)
	}
	return true, nil
}

func UpdateByID[T any](ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, update bson.M, result *T) (bool, error) {
	return FindOneAndUpdate(ctx, collection, bson.M{"_id": id}, update, result)
}

// Upsert replaces the fields in update on the match, inserting when absent,
// and decodes the stored document.
func Upsert[T any](ctx context.Context, collection *mongo.Collection, filter, update bson.M, result *T) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)
	err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(result)
	return wrapWriteError(err)
}
