package assignment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/assignment"
	"github.com/civicfix/civicback/services/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var clock = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu       sync.Mutex
	events   []models.Event
	notified []primitive.ObjectID
	err      error
}

func (r *recorder) Publish(_ context.Context, e models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) NotifyReportResolved(_ context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified = append(r.notified, report.ID)
	return r.err
}

func (r *recorder) types() []models.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store  *memory.Store
	engine *assignment.Engine
	events *recorder
	logs   *observer.ObservedLogs
	admin  *models.Principal
	raj    *models.Volunteer
	report *models.Report
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	raj := &models.Volunteer{
		Name:              "Raj",
		Skills:            []models.SkillCategory{models.SkillElectrical},
		SpecializedFields: []models.Field{},
		Availability:      "weekends",
		Contact:           "9990001111",
	}
	require.NoError(t, store.InsertVolunteer(ctx, raj))

	report := &models.Report{
		Title:     "Streetlight out on 5th",
		Category:  models.CategoryStreetLighting,
		Status:    models.StatusPending,
		UserID:    primitive.NewObjectID(),
		CreatedAt: clock.Add(-time.Hour),
	}
	require.NoError(t, store.InsertReport(ctx, report))

	core, logs := observer.New(zapcore.DebugLevel)
	events := &recorder{}
	engine := assignment.NewEngine(store, store, store, zap.New(core),
		assignment.WithEvents(events),
		assignment.WithNotifier(events),
		assignment.WithClock(func() time.Time { return clock }))

	return &fixture{
		store:  store,
		engine: engine,
		events: events,
		logs:   logs,
		admin:  &models.Principal{ID: primitive.NewObjectID(), Kind: models.PrincipalAdmin, Name: "Asha", IsAdmin: true},
		raj:    raj,
		report: report,
	}
}

func intPtr(n int) *int { return &n }

func (f *fixture) request() assignment.CreateRequest {
	return assignment.CreateRequest{
		IssueID:                 f.report.ID.Hex(),
		Category:                "Electrical",
		Field:                   "Wiring Repair",
		MainVolunteer:           f.raj.ID.Hex(),
		SubVolunteersCount:      intPtr(1),
		EstimatedCompletionDate: "2026-10-25",
	}
}

func (f *fixture) create(t *testing.T) *models.VolunteerAssignment {
	t.Helper()
	a, err := f.engine.Create(context.Background(), f.admin, f.request())
	require.NoError(t, err)
	return a
}

func requireKind(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	var aerr *apperr.Error
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, kind, aerr.Kind, aerr.Error())
	return aerr
}

func TestCreateAssignment(t *testing.T) {
	f := newFixture(t)

	a := f.create(t)

	assert.False(t, a.ID.IsZero())
	assert.Equal(t, f.report.ID, a.IssueID)
	assert.Equal(t, models.SkillElectrical, a.Category)
	assert.Equal(t, models.FieldWiringRepair, a.Field)
	assert.Equal(t, f.raj.ID, a.MainVolunteer)
	assert.Equal(t, 1, a.SubVolunteersCount)
	assert.False(t, a.VolunteerCompleted)
	assert.Equal(t, "", a.CompletionNotes)
	assert.Equal(t, time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC), a.EstimatedCompletionDate)
	assert.Equal(t, clock, a.CreatedAt)
	assert.Equal(t, clock, a.UpdatedAt)
	assert.Equal(t, []models.EventType{models.EventAssignmentCreated}, f.events.types())
	assert.Equal(t, "Asha", f.events.events[0].Actor)
}

func TestCreateAssignmentTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	f.create(t)

	_, err := f.engine.Create(context.Background(), f.admin, f.request())

	aerr := requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "report already assigned", aerr.Message)
}

func TestCreateAssignmentSkillMismatch(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.Category = "Plumbing"
	req.Field = "Pipe Repair"

	_, err := f.engine.Create(context.Background(), f.admin, req)

	aerr := requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "main volunteer does not have Plumbing skill", aerr.Message)
}

func TestCreateAssignmentSpecializedFieldMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.UpdateVolunteer(ctx, f.raj.ID, models.VolunteerChanges{
		SpecializedFields: []models.Field{models.FieldGeneratorMaintenance},
	})
	require.NoError(t, err)

	_, err = f.engine.Create(ctx, f.admin, f.request())

	aerr := requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "main volunteer does not specialize in Wiring Repair", aerr.Message)
}

func TestCreateAssignmentValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*assignment.CreateRequest)
		field  string
		msg    string
	}{
		{"missing issue", func(r *assignment.CreateRequest) { r.IssueID = "" }, "issueId", "issueId is required"},
		{"malformed issue", func(r *assignment.CreateRequest) { r.IssueID = "abc" }, "issueId", "invalid issueId"},
		{"unknown category", func(r *assignment.CreateRequest) { r.Category = "Juggling" }, "category", "invalid category"},
		{"unknown field", func(r *assignment.CreateRequest) { r.Field = "Knitting" }, "field", "invalid field"},
		{"field outside category", func(r *assignment.CreateRequest) { r.Field = "Pipe Repair" }, "field", "field does not belong to category Electrical"},
		{"negative helpers", func(r *assignment.CreateRequest) { r.SubVolunteersCount = intPtr(-1) }, "subVolunteersCount", "subVolunteersCount must be at least 0"},
		{"missing helpers", func(r *assignment.CreateRequest) { r.SubVolunteersCount = nil }, "subVolunteersCount", "subVolunteersCount is required"},
		{"bad date", func(r *assignment.CreateRequest) { r.EstimatedCompletionDate = "soon" }, "estimatedCompletionDate", "invalid date format"},
		{"past date", func(r *assignment.CreateRequest) { r.EstimatedCompletionDate = "2026-10-17" }, "estimatedCompletionDate", "estimated completion date cannot be in the past"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.request()
			tc.mutate(&req)

			_, err := f.engine.Create(context.Background(), f.admin, req)

			aerr := requireKind(t, err, apperr.KindValidation)
			assert.Equal(t, tc.msg, aerr.Fields[tc.field])
			assert.Empty(t, f.events.types())
		})
	}
}

func TestCreateAssignmentAcceptsToday(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.EstimatedCompletionDate = "2026-10-18T00:00:00Z"

	_, err := f.engine.Create(context.Background(), f.admin, req)

	assert.NoError(t, err)
}

func TestCreateAssignmentAcceptsTodayInSenderZone(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.EstimatedCompletionDate = "2026-10-18T01:00:00+05:30"

	_, err := f.engine.Create(context.Background(), f.admin, req)
	assert.NoError(t, err)

	f = newFixture(t)
	req = f.request()
	req.EstimatedCompletionDate = "2026-10-17T23:30:00-05:00"
	_, err = f.engine.Create(context.Background(), f.admin, req)
	aerr := requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "estimated completion date cannot be in the past", aerr.Fields["estimatedCompletionDate"])
}

func TestCreateAssignmentTrimsText(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.WorkDescription = "  fix the lamp  "
	notes := " ladder needed\n"
	req.CompletionNotes = &notes

	a, err := f.engine.Create(context.Background(), f.admin, req)

	require.NoError(t, err)
	assert.Equal(t, "fix the lamp", a.WorkDescription)
	assert.Equal(t, "ladder needed", a.CompletionNotes)
}

func TestCreateAssignmentCheckOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Validation comes before any lookup.
	req := f.request()
	req.IssueID = primitive.NewObjectID().Hex()
	req.Category = "Juggling"
	_, err := f.engine.Create(ctx, f.admin, req)
	requireKind(t, err, apperr.KindValidation)

	// A missing report is reported before a missing volunteer.
	req = f.request()
	req.IssueID = primitive.NewObjectID().Hex()
	req.MainVolunteer = primitive.NewObjectID().Hex()
	_, err = f.engine.Create(ctx, f.admin, req)
	aerr := requireKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "report not found", aerr.Message)

	req = f.request()
	req.MainVolunteer = primitive.NewObjectID().Hex()
	_, err = f.engine.Create(ctx, f.admin, req)
	aerr = requireKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "main volunteer not found", aerr.Message)
}

func TestCreateAssignmentOnResolvedReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.SetResolved(ctx, f.report.ID, "Asha", clock, "")
	require.NoError(t, err)

	_, err = f.engine.Create(ctx, f.admin, f.request())

	aerr := requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "cannot assign to a resolved report", aerr.Message)
}

func TestCreateAssignmentOnRejectedReportAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rejected := models.StatusRejected
	_, err := f.store.UpdateReport(ctx, f.report.ID, models.ReportChanges{ReportPatch: models.ReportPatch{Status: &rejected}})
	require.NoError(t, err)

	_, err = f.engine.Create(ctx, f.admin, f.request())

	assert.NoError(t, err)
}

func TestCreateAssignmentConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.Create(ctx, f.admin, f.request())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	}
	assert.Equal(t, 1, succeeded)

	list, err := f.store.ListAssignmentsByIssue(ctx, f.report.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestVolunteerCompletionLatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t)
	notes := "replaced the fuse box"

	done, err := f.engine.CompleteByVolunteer(ctx, f.admin, a.ID, assignment.CompleteRequest{CompletionNotes: &notes})
	require.NoError(t, err)
	assert.True(t, done.VolunteerCompleted)
	assert.Equal(t, notes, done.CompletionNotes)

	_, err = f.engine.CompleteByVolunteer(ctx, f.admin, a.ID, assignment.CompleteRequest{})
	aerr := requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "assignment already marked completed by volunteer", aerr.Message)

	stored, err := f.store.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, notes, stored.CompletionNotes)
	assert.Equal(t, []models.EventType{
		models.EventAssignmentCreated,
		models.EventAssignmentVolunteerCompleted,
	}, f.events.types())
}

func TestVolunteerCompletionKeepsNotesWhenOmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request()
	notes := "bring a ladder"
	req.CompletionNotes = &notes
	a, err := f.engine.Create(ctx, f.admin, req)
	require.NoError(t, err)

	done, err := f.engine.CompleteByVolunteer(ctx, f.admin, a.ID, assignment.CompleteRequest{})

	require.NoError(t, err)
	assert.Equal(t, notes, done.CompletionNotes)
}

func TestVolunteerCompletionKeepsNotesWhenBlank(t *testing.T) {
	for _, blank := range []string{"", "   "} {
		f := newFixture(t)
		ctx := context.Background()
		req := f.request()
		notes := "bring a ladder"
		req.CompletionNotes = &notes
		a, err := f.engine.Create(ctx, f.admin, req)
		require.NoError(t, err)

		empty := blank
		done, err := f.engine.CompleteByVolunteer(ctx, f.admin, a.ID, assignment.CompleteRequest{CompletionNotes: &empty})

		require.NoError(t, err)
		assert.True(t, done.VolunteerCompleted)
		assert.Equal(t, notes, done.CompletionNotes)
		stored, err := f.store.GetAssignment(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, notes, stored.CompletionNotes)
	}
}

func TestVolunteerCompletionTrimsNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t)
	notes := "  replaced the fuse "

	done, err := f.engine.CompleteByVolunteer(ctx, f.admin, a.ID, assignment.CompleteRequest{CompletionNotes: &notes})

	require.NoError(t, err)
	assert.Equal(t, "replaced the fuse", done.CompletionNotes)
}

func TestVolunteerCompletionUnknownAssignment(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.CompleteByVolunteer(context.Background(), f.admin, primitive.NewObjectID(), assignment.CompleteRequest{})

	aerr := requireKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "assignment not found", aerr.Message)
}

func TestConfirmResolved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t)

	_, err := f.engine.ConfirmResolved(ctx, f.admin, a.ID)
	aerr := requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "volunteer has not confirmed completion", aerr.Message)

	report, err := f.store.GetReport(ctx, f.report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, report.Status)

	_, err = f.engine.CompleteByVolunteer(ctx, f.admin, a.ID, assignment.CompleteRequest{})
	require.NoError(t, err)

	resolved, err := f.engine.ConfirmResolved(ctx, f.admin, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, clock, *resolved.ResolvedAt)
	assert.Equal(t, "Asha", resolved.ResolvedBy)
	assert.Equal(t, []primitive.ObjectID{f.report.ID}, f.events.notified)
	assert.Contains(t, f.events.types(), models.EventReportResolved)

	// The assignment itself is untouched.
	stored, err := f.store.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.VolunteerCompleted)
}

func TestConfirmResolvedIsRepeatable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t)
	_, err := f.engine.CompleteByVolunteer(ctx, f.admin, a.ID, assignment.CompleteRequest{})
	require.NoError(t, err)

	_, err = f.engine.ConfirmResolved(ctx, f.admin, a.ID)
	require.NoError(t, err)
	again, err := f.engine.ConfirmResolved(ctx, f.admin, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, again.Status)
}

func TestConfirmResolvedMissingReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := &models.VolunteerAssignment{
		IssueID:            primitive.NewObjectID(),
		Category:           models.SkillElectrical,
		Field:              models.FieldWiringRepair,
		MainVolunteer:      f.raj.ID,
		VolunteerCompleted: true,
	}
	require.NoError(t, f.store.InsertAssignment(ctx, a))

	_, err := f.engine.ConfirmResolved(ctx, f.admin, a.ID)

	aerr := requireKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "report not found", aerr.Message)
	assert.Equal(t, 1, f.logs.FilterMessage("assignment references missing report").Len())
}

func TestSideEffectFailuresAreLoggedOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.events.err = errors.New("broker down")

	a := f.create(t)
	_, err := f.engine.CompleteByVolunteer(ctx, f.admin, a.ID, assignment.CompleteRequest{})
	require.NoError(t, err)
	_, err = f.engine.ConfirmResolved(ctx, f.admin, a.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, f.logs.FilterMessage("failed to publish event").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("failed to notify report owner").Len())
}

func TestUpdateAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t)

	desc := "replace two poles"
	due := "2026-11-02"
	field := "Light Fixture Installation"
	updated, err := f.engine.Update(ctx, f.admin, a.ID, assignment.UpdateRequest{
		WorkDescription:         &desc,
		EstimatedCompletionDate: &due,
		Field:                   &field,
		SubVolunteersCount:      intPtr(3),
	})

	require.NoError(t, err)
	assert.Equal(t, desc, updated.WorkDescription)
	assert.Equal(t, models.FieldLightFixtureInstall, updated.Field)
	assert.Equal(t, 3, updated.SubVolunteersCount)
	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), updated.EstimatedCompletionDate)
	assert.Equal(t, a.IssueID, updated.IssueID)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)
}

func TestUpdateAssignmentRechecksVolunteer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t)

	plumber := &models.Volunteer{Name: "Meera", Skills: []models.SkillCategory{models.SkillPlumbing}, Contact: "9990002222"}
	require.NoError(t, f.store.InsertVolunteer(ctx, plumber))
	id := plumber.ID.Hex()

	_, err := f.engine.Update(ctx, f.admin, a.ID, assignment.UpdateRequest{MainVolunteer: &id})
	aerr := requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "main volunteer does not have Electrical skill", aerr.Message)

	category, field := "Plumbing", "Pipe Repair"
	updated, err := f.engine.Update(ctx, f.admin, a.ID, assignment.UpdateRequest{MainVolunteer: &id, Category: &category, Field: &field})
	require.NoError(t, err)
	assert.Equal(t, plumber.ID, updated.MainVolunteer)
	assert.Equal(t, models.SkillPlumbing, updated.Category)
}

func TestUpdateAssignmentRechecksSpecializedField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.UpdateVolunteer(ctx, f.raj.ID, models.VolunteerChanges{
		SpecializedFields: []models.Field{models.FieldGeneratorMaintenance},
	})
	require.NoError(t, err)
	req := f.request()
	req.Field = "Generator Maintenance"
	a, err := f.engine.Create(ctx, f.admin, req)
	require.NoError(t, err)

	field := "Wiring Repair"
	_, err = f.engine.Update(ctx, f.admin, a.ID, assignment.UpdateRequest{Field: &field})

	aerr := requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, "main volunteer does not specialize in Wiring Repair", aerr.Message)
	stored, err := f.store.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FieldGeneratorMaintenance, stored.Field)
}

func TestUpdateAssignmentUnknownVolunteer(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)
	id := primitive.NewObjectID().Hex()

	_, err := f.engine.Update(context.Background(), f.admin, a.ID, assignment.UpdateRequest{MainVolunteer: &id})

	aerr := requireKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "main volunteer not found", aerr.Message)
}

func TestUpdateAssignmentTrimsText(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)
	desc, notes := "  replace two poles ", " fuse box\t"

	updated, err := f.engine.Update(context.Background(), f.admin, a.ID, assignment.UpdateRequest{
		WorkDescription: &desc,
		CompletionNotes: &notes,
	})

	require.NoError(t, err)
	assert.Equal(t, "replace two poles", updated.WorkDescription)
	assert.Equal(t, "fuse box", updated.CompletionNotes)
}

func TestUpdateAssignmentFieldMustMatchCategory(t *testing.T) {
	f := newFixture(t)
	a := f.create(t)
	category := "Plumbing"

	_, err := f.engine.Update(context.Background(), f.admin, a.ID, assignment.UpdateRequest{Category: &category})

	aerr := requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "field does not belong to category Plumbing", aerr.Fields["field"])
}

func TestUpdateCannotFlipCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t)
	yes, no := true, false

	_, err := f.engine.Update(ctx, f.admin, a.ID, assignment.UpdateRequest{VolunteerCompleted: &yes})
	requireKind(t, err, apperr.KindConflict)

	_, err = f.engine.Update(ctx, f.admin, a.ID, assignment.UpdateRequest{VolunteerCompleted: &no})
	assert.NoError(t, err)

	_, err = f.engine.CompleteByVolunteer(ctx, f.admin, a.ID, assignment.CompleteRequest{})
	require.NoError(t, err)
	_, err = f.engine.Update(ctx, f.admin, a.ID, assignment.UpdateRequest{VolunteerCompleted: &no})
	requireKind(t, err, apperr.KindConflict)

	// Restating the current value is not a change.
	updated, err := f.engine.Update(ctx, f.admin, a.ID, assignment.UpdateRequest{VolunteerCompleted: &yes})
	require.NoError(t, err)
	assert.True(t, updated.VolunteerCompleted)
}

func TestDeleteAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t)

	require.NoError(t, f.engine.Delete(ctx, f.admin, a.ID))

	err := f.engine.Delete(ctx, f.admin, a.ID)
	requireKind(t, err, apperr.KindNotFound)

	report, err := f.store.GetReport(ctx, f.report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, report.Status)

	// The report can be assigned again.
	f.create(t)
}

func TestListAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t)

	other := &models.Report{Title: "Leaking main", Status: models.StatusPending, CreatedAt: clock}
	require.NoError(t, f.store.InsertReport(ctx, other))
	ghost := &models.VolunteerAssignment{
		IssueID:       other.ID,
		Category:      models.SkillElectrical,
		Field:         models.FieldWiringRepair,
		MainVolunteer: primitive.NewObjectID(),
		CreatedAt:     clock.Add(time.Minute),
	}
	require.NoError(t, f.store.InsertAssignment(ctx, ghost))

	views, err := f.engine.ListAll(ctx, f.admin)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, ghost.ID, views[0].ID)
	assert.Nil(t, views[0].Volunteer)
	require.NotNil(t, views[0].Issue)
	assert.Equal(t, "Leaking main", views[0].Issue.Title)

	assert.Equal(t, first.ID, views[1].ID)
	require.NotNil(t, views[1].Volunteer)
	assert.Equal(t, "Raj", views[1].Volunteer.Name)
	assert.Equal(t, models.StatusPending, views[1].Issue.Status)
}

func TestListByIssue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t)

	views, err := f.engine.ListByIssue(ctx, f.admin, f.report.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Raj", views[0].MainVolunteerName)

	_, err = f.store.DeleteVolunteer(ctx, f.raj.ID)
	require.NoError(t, err)
	views, err = f.engine.ListByIssue(ctx, f.admin, f.report.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", views[0].MainVolunteerName)

	_, err = f.engine.ListByIssue(ctx, f.admin, primitive.NewObjectID())
	requireKind(t, err, apperr.KindNotFound)
}

func TestEngineRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	citizen := &models.Principal{ID: primitive.NewObjectID(), Kind: models.PrincipalUser, Name: "Ravi"}
	id := primitive.NewObjectID()

	calls := map[string]func(p *models.Principal) error{
		"list":     func(p *models.Principal) error { _, err := f.engine.ListAll(ctx, p); return err },
		"by issue": func(p *models.Principal) error { _, err := f.engine.ListByIssue(ctx, p, f.report.ID); return err },
		"create":   func(p *models.Principal) error { _, err := f.engine.Create(ctx, p, f.request()); return err },
		"complete": func(p *models.Principal) error {
			_, err := f.engine.CompleteByVolunteer(ctx, p, id, assignment.CompleteRequest{})
			return err
		},
		"confirm": func(p *models.Principal) error { _, err := f.engine.ConfirmResolved(ctx, p, id); return err },
		"update":  func(p *models.Principal) error { _, err := f.engine.Update(ctx, p, id, assignment.UpdateRequest{}); return err },
		"delete":  func(p *models.Principal) error { return f.engine.Delete(ctx, p, id) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			requireKind(t, call(nil), apperr.KindUnauthenticated)
			requireKind(t, call(citizen), apperr.KindForbidden)
		})
	}

	list, err := f.store.ListAssignments(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.store.Fail()

	_, err := f.engine.Create(context.Background(), f.admin, f.request())

	aerr := requireKind(t, err, apperr.KindInternal)
	assert.ErrorIs(t, aerr, memory.ErrUnavailable)
}
