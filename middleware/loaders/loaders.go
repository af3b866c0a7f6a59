// Package loaders batches the volunteer and report lookups made while
// rendering assignment listings into one query per collection.
package loaders

import (
	"context"
	"fmt"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const batchWait = 2 * time.Millisecond

type VolunteerSource interface {
	FindVolunteersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Volunteer, error)
}

type ReportSource interface {
	FindReportsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Report, error)
}

type Loaders struct {
	VolunteerLoader *dataloader.Loader
	ReportLoader    *dataloader.Loader
}

func NewLoaders(volunteers VolunteerSource, reports ReportSource) *Loaders {
	return &Loaders{
		VolunteerLoader: newVolunteerLoader(volunteers),
		ReportLoader:    newReportLoader(reports),
	}
}

func parseKeys(keys dataloader.Keys) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, len(keys))
	for i, key := range keys {
		id, err := primitive.ObjectIDFromHex(key.String())
		if err != nil {
			return nil, fmt.Errorf("invalid id: %s", key.String())
		}
		ids[i] = id
	}
	return ids, nil
}

// Missing documents resolve to a nil Data so callers can tell "absent"
// from a failed batch.
func newVolunteerLoader(source VolunteerSource) *dataloader.Loader {
	return dataloader.NewBatchedLoader(func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids, err := parseKeys(keys)
		if err != nil {
			return resultsWithError(len(keys), err)
		}

		volunteers, err := source.FindVolunteersByIDs(ctx, ids)
		if err != nil {
			return resultsWithError(len(keys), err)
		}

		byID := make(map[primitive.ObjectID]*models.Volunteer, len(volunteers))
		for _, v := range volunteers {
			byID[v.ID] = v
		}

		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			results[i] = &dataloader.Result{Data: byID[id]}
		}
		return results
	}, dataloader.WithWait(batchWait))
}

func newReportLoader(source ReportSource) *dataloader.Loader {
	return dataloader.NewBatchedLoader(func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids, err := parseKeys(keys)
		if err != nil {
			return resultsWithError(len(keys), err)
		}

		reports, err := source.FindReportsByIDs(ctx, ids)
		if err != nil {
			return resultsWithError(len(keys), err)
		}

		byID := make(map[primitive.ObjectID]*models.Report, len(reports))
		for _, r := range reports {
			byID[r.ID] = r
		}

		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			results[i] = &dataloader.Result{Data: byID[id]}
		}
		return results
	}, dataloader.WithWait(batchWait))
}

func resultsWithError(count int, err error) []*dataloader.Result {
	results := make([]*dataloader.Result, count)
	for i := range results {
		results[i] = &dataloader.Result{Error: err}
	}
	return results
}

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// For returns the request's loaders, or nil outside a request.
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

func ObjectIDKey(id primitive.ObjectID) dataloader.Key {
	return dataloader.StringKey(id.Hex())
}

// Middleware gives every request its own loaders so cached results never
// outlive the request.
func Middleware(volunteers VolunteerSource, reports ReportSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithLoaders(c.Request.Context(), NewLoaders(volunteers, reports))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
