package loaders

import (
	"context"

	"github.com/civicfix/civicback/models"
	"github.com/graph-gophers/dataloader"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lookup resolves references through the request's loaders, falling back
// to fresh loaders when the context carries none.
type Lookup struct {
	volunteers VolunteerSource
	reports    ReportSource
}

func NewLookup(volunteers VolunteerSource, reports ReportSource) *Lookup {
	return &Lookup{volunteers: volunteers, reports: reports}
}

func (l *Lookup) loaders(ctx context.Context) *Loaders {
	if ld := For(ctx); ld != nil {
		return ld
	}
	return NewLoaders(l.volunteers, l.reports)
}

func (l *Lookup) Volunteers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Volunteer, error) {
	out := make(map[primitive.ObjectID]*models.Volunteer, len(ids))
	err := load(ctx, l.loaders(ctx).VolunteerLoader, ids, func(id primitive.ObjectID, data interface{}) {
		if v, ok := data.(*models.Volunteer); ok && v != nil {
			out[id] = v
		}
	})
	return out, err
}

func (l *Lookup) Reports(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Report, error) {
	out := make(map[primitive.ObjectID]*models.Report, len(ids))
	err := load(ctx, l.loaders(ctx).ReportLoader, ids, func(id primitive.ObjectID, data interface{}) {
		if r, ok := data.(*models.Report); ok && r != nil {
			out[id] = r
		}
	})
	return out, err
}

// load queues every key before resolving any thunk so the loader can
// batch them.
func load(ctx context.Context, loader *dataloader.Loader, ids []primitive.ObjectID, set func(primitive.ObjectID, interface{})) error {
	thunks := make([]dataloader.Thunk, len(ids))
	for i, id := range ids {
		thunks[i] = loader.Load(ctx, ObjectIDKey(id))
	}
	for i, thunk := range thunks {
		data, err := thunk()
		if err != nil {
			return err
		}
		set(ids[i], data)
	}
	return nil
}
