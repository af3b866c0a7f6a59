package command

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DeleteOne reports whether a document was removed.
func DeleteOne(ctx context.Context, collection *mongo.Collection, filter bson.M) (bool, error) {
	res, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func DeleteByID(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID) (bool, error) {
	return DeleteOne(ctx, collection, bson.M{"_id": id})
}
