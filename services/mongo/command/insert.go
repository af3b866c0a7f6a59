package command

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// InsertOne stores document and writes the generated id back into its ID
// field. document must be a pointer.
func InsertOne[T any](ctx context.Context, collection *mongo.Collection, document T) error {
	if id, err := GetDocumentID(document); err == nil {
		if oid, ok := id.(primitive.ObjectID); ok && oid.IsZero() {
			if err := SetDocumentID(document, primitive.NewObjectID()); err != nil {
				return err
			}
		}
	}

	res, err := collection.InsertOne(ctx, document)
	if err != nil {
		return wrapWriteError(err)
	}
	if _, ok := res.InsertedID.(primitive.ObjectID); !ok {
		return fmt.Errorf("expected ObjectID, got %T", res.InsertedID)
	}
	return nil
}
