package loaders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/civicfix/civicback/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type countingSource struct {
	mu         sync.Mutex
	volunteers map[primitive.ObjectID]*models.Volunteer
	reports    map[primitive.ObjectID]*models.Report
	batches    [][]primitive.ObjectID
	err        error
}

func (s *countingSource) FindVolunteersByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, ids)
	if s.err != nil {
		return nil, s.err
	}
	out := []*models.Volunteer{}
	for _, id := range ids {
		if v, ok := s.volunteers[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *countingSource) FindReportsByIDs(_ context.Context, ids []primitive.ObjectID) ([]*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, ids)
	out := []*models.Report{}
	for _, id := range ids {
		if r, ok := s.reports[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestLookupBatchesVolunteers(t *testing.T) {
	raj := &models.Volunteer{ID: primitive.NewObjectID(), Name: "Raj"}
	meera := &models.Volunteer{ID: primitive.NewObjectID(), Name: "Meera"}
	src := &countingSource{volunteers: map[primitive.ObjectID]*models.Volunteer{raj.ID: raj, meera.ID: meera}}
	lookup := NewLookup(src, src)
	missing := primitive.NewObjectID()

	got, err := lookup.Volunteers(context.Background(), []primitive.ObjectID{raj.ID, meera.ID, raj.ID, missing})

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Raj", got[raj.ID].Name)
	assert.NotContains(t, got, missing)
	require.Len(t, src.batches, 1)
	assert.Len(t, src.batches[0], 3, "repeated keys are deduplicated")
}

func TestLookupReports(t *testing.T) {
	r := &models.Report{ID: primitive.NewObjectID(), Title: "Pothole"}
	src := &countingSource{reports: map[primitive.ObjectID]*models.Report{r.ID: r}}

	got, err := NewLookup(src, src).Reports(context.Background(), []primitive.ObjectID{r.ID})

	require.NoError(t, err)
	assert.Equal(t, "Pothole", got[r.ID].Title)
}

func TestLookupPropagatesErrors(t *testing.T) {
	src := &countingSource{err: errors.New("mongo down")}

	_, err := NewLookup(src, src).Volunteers(context.Background(), []primitive.ObjectID{primitive.NewObjectID()})

	assert.EqualError(t, err, "mongo down")
}

func TestMiddlewareInstallsLoaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	src := &countingSource{}
	r := gin.New()
	r.Use(Middleware(src, src))
	var seen *Loaders
	r.GET("/", func(c *gin.Context) {
		seen = For(c.Request.Context())
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotNil(t, seen)
	assert.Nil(t, For(context.Background()))
}
