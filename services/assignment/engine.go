// Package assignment binds volunteers to reports and drives the
// completion and admin-confirmation lifecycle of each binding.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const unknownVolunteer = "Unknown"

type Engine struct {
	assignments Store
	reports     ReportStore
	volunteers  VolunteerStore
	lookup      Lookup
	events      EventPublisher
	notifier    Notifier
	logger      *zap.Logger
	now         func() time.Time
}

type Option func(*Engine)

// WithLookup replaces the default one-by-one reference resolution.
func WithLookup(l Lookup) Option {
	return func(e *Engine) { e.lookup = l }
}

func WithEvents(p EventPublisher) Option {
	return func(e *Engine) { e.events = p }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(assignments Store, reports ReportStore, volunteers VolunteerStore, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		assignments: assignments,
		reports:     reports,
		volunteers:  volunteers,
		logger:      logger.Named("assignment"),
		now:         time.Now,
	}
	e.lookup = storeLookup{reports: reports, volunteers: volunteers}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func requireAdmin(p *models.Principal) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if !p.IsAdmin {
		return apperr.Forbidden("administrator access required")
	}
	return nil
}

func storeErr(op string, err error) error {
	var aerr *apperr.Error
	if errors.As(err, &aerr) {
		return aerr
	}
	return apperr.Internal(op, err)
}

// ListAll returns every assignment newest-first with shallow report and
// volunteer views attached.
func (e *Engine) ListAll(ctx context.Context, p *models.Principal) ([]*models.AssignmentView, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	list, err := e.assignments.ListAssignments(ctx)
	if err != nil {
		return nil, storeErr("failed to list assignments", err)
	}

	reportIDs := make([]primitive.ObjectID, 0, len(list))
	volunteerIDs := make([]primitive.ObjectID, 0, len(list))
	for _, a := range list {
		reportIDs = append(reportIDs, a.IssueID)
		volunteerIDs = append(volunteerIDs, a.MainVolunteer)
	}

	reports, err := e.lookup.Reports(ctx, reportIDs)
	if err != nil {
		return nil, storeErr("failed to load reports", err)
	}
	volunteers, err := e.lookup.Volunteers(ctx, volunteerIDs)
	if err != nil {
		return nil, storeErr("failed to load volunteers", err)
	}

	views := make([]*models.AssignmentView, 0, len(list))
	for _, a := range list {
		view := &models.AssignmentView{VolunteerAssignment: *a}
		if r, ok := reports[a.IssueID]; ok {
			view.Issue = &models.ReportRef{ID: r.ID, Title: r.Title, Status: r.Status}
		}
		view.Volunteer = models.NewVolunteerRef(volunteers[a.MainVolunteer])
		views = append(views, view)
	}
	return views, nil
}

// ListByIssue returns the assignments of one report newest-first with the
// volunteer's display name attached.
func (e *Engine) ListByIssue(ctx context.Context, p *models.Principal, issueID primitive.ObjectID) ([]*models.AssignmentView, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	report, err := e.reports.GetReport(ctx, issueID)
	if err != nil {
		return nil, storeErr("failed to load report", err)
	}
	if report == nil {
		return nil, apperr.NotFound("report not found")
	}

	list, err := e.assignments.ListAssignmentsByIssue(ctx, issueID)
	if err != nil {
		return nil, storeErr("failed to list assignments", err)
	}

	ids := make([]primitive.ObjectID, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.MainVolunteer)
	}
	volunteers, err := e.lookup.Volunteers(ctx, ids)
	if err != nil {
		return nil, storeErr("failed to load volunteers", err)
	}

	views := make([]*models.AssignmentView, 0, len(list))
	for _, a := range list {
		name := unknownVolunteer
		if v, ok := volunteers[a.MainVolunteer]; ok {
			name = v.Name
		}
		views = append(views, &models.AssignmentView{VolunteerAssignment: *a, MainVolunteerName: name})
	}
	return views, nil
}

// Create validates the request in a fixed order and persists a new
// assignment. The first failing check determines the error.
func (e *Engine) Create(ctx context.Context, p *models.Principal, req CreateRequest) (*models.VolunteerAssignment, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	d, err := e.parseCreate(req)
	if err != nil {
		return nil, err
	}

	report, err := e.reports.GetReport(ctx, d.issueID)
	if err != nil {
		return nil, storeErr("failed to load report", err)
	}
	if report == nil {
		return nil, apperr.NotFound("report not found")
	}
	if report.Status == models.StatusResolved {
		return nil, apperr.Conflict("cannot assign to a resolved report")
	}

	if _, err := e.checkVolunteer(ctx, d.mainID, d.category, d.field); err != nil {
		return nil, err
	}

	existing, err := e.assignments.FindAssignmentByIssue(ctx, d.issueID)
	if err != nil {
		return nil, storeErr("failed to check existing assignment", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("report already assigned")
	}

	now := e.now().UTC()
	a := &models.VolunteerAssignment{
		IssueID:                 d.issueID,
		Category:                d.category,
		Field:                   d.field,
		MainVolunteer:           d.mainID,
		SubVolunteersCount:      *req.SubVolunteersCount,
		WorkDescription:         strings.TrimSpace(req.WorkDescription),
		EstimatedCompletionDate: d.due,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if req.VolunteerCompleted != nil {
		a.VolunteerCompleted = *req.VolunteerCompleted
	}
	if req.CompletionNotes != nil {
		a.CompletionNotes = strings.TrimSpace(*req.CompletionNotes)
	}

	if err := e.assignments.InsertAssignment(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Conflict("report already assigned")
		}
		return nil, storeErr("failed to create assignment", err)
	}

	e.logger.Info("assignment created",
		zap.String("assignment", a.ID.Hex()),
		zap.String("issue", a.IssueID.Hex()),
		zap.String("volunteer", a.MainVolunteer.Hex()),
		zap.String("by", p.DisplayName()))
	e.publish(ctx, models.EventAssignmentCreated, a, p)
	return a, nil
}

// checkVolunteer applies the skill and specialized-field rules.
func (e *Engine) checkVolunteer(ctx context.Context, id primitive.ObjectID, category models.SkillCategory, field models.Field) (*models.Volunteer, error) {
	v, err := e.volunteers.GetVolunteer(ctx, id)
	if err != nil {
		return nil, storeErr("failed to load volunteer", err)
	}
	if v == nil {
		return nil, apperr.NotFound("main volunteer not found")
	}
	if !v.HasSkill(category) {
		return nil, apperr.Conflict(fmt.Sprintf("main volunteer does not have %s skill", category))
	}
	if !v.Accepts(field) {
		return nil, apperr.Conflict(fmt.Sprintf("main volunteer does not specialize in %s", field))
	}
	return v, nil
}

// CompleteByVolunteer latches volunteerCompleted. A second call fails with
// Conflict rather than being ignored.
func (e *Engine) CompleteByVolunteer(ctx context.Context, p *models.Principal, id primitive.ObjectID, req CompleteRequest) (*models.VolunteerAssignment, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	current, err := e.assignments.GetAssignment(ctx, id)
	if err != nil {
		return nil, storeErr("failed to load assignment", err)
	}
	if current == nil {
		return nil, apperr.NotFound("assignment not found")
	}
	if current.VolunteerCompleted {
		return nil, apperr.Conflict("assignment already marked completed by volunteer")
	}

	updated, err := e.assignments.MarkVolunteerCompleted(ctx, id, nonBlank(req.CompletionNotes), e.now().UTC())
	if err != nil {
		return nil, storeErr("failed to update assignment", err)
	}
	if updated == nil {
		// Lost a race with a concurrent completion or delete.
		return nil, apperr.Conflict("assignment already marked completed by volunteer")
	}

	e.logger.Info("assignment completed by volunteer", zap.String("assignment", id.Hex()))
	e.publish(ctx, models.EventAssignmentVolunteerCompleted, updated, p)
	return updated, nil
}

// ConfirmResolved marks the linked report resolved once the volunteer has
// confirmed completion. The assignment itself is not modified.
func (e *Engine) ConfirmResolved(ctx context.Context, p *models.Principal, id primitive.ObjectID) (*models.Report, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	a, err := e.assignments.GetAssignment(ctx, id)
	if err != nil {
		return nil, storeErr("failed to load assignment", err)
	}
	if a == nil {
		return nil, apperr.NotFound("assignment not found")
	}
	if !a.VolunteerCompleted {
		return nil, apperr.Conflict("volunteer has not confirmed completion")
	}

	report, err := e.reports.SetResolved(ctx, a.IssueID, p.DisplayName(), e.now().UTC(), "")
	if err != nil {
		return nil, storeErr("failed to resolve report", err)
	}
	if report == nil {
		e.logger.Warn("assignment references missing report",
			zap.String("assignment", a.ID.Hex()),
			zap.String("issue", a.IssueID.Hex()))
		return nil, apperr.NotFound("report not found")
	}

	e.logger.Info("report resolved",
		zap.String("report", report.ID.Hex()),
		zap.String("by", report.ResolvedBy))

	if e.notifier != nil {
		if err := e.notifier.NotifyReportResolved(ctx, report); err != nil {
			e.logger.Warn("failed to notify report owner", zap.String("report", report.ID.Hex()), zap.Error(err))
		}
	}
	e.publish(ctx, models.EventReportResolved, a, p)
	return report, nil
}

// Update applies the whitelisted changes in req. Changing the volunteer,
// category or field re-runs the volunteer checks against the result.
func (e *Engine) Update(ctx context.Context, p *models.Principal, id primitive.ObjectID, req UpdateRequest) (*models.VolunteerAssignment, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	current, err := e.assignments.GetAssignment(ctx, id)
	if err != nil {
		return nil, storeErr("failed to load assignment", err)
	}
	if current == nil {
		return nil, apperr.NotFound("assignment not found")
	}

	changes, err := e.parseUpdate(req, current)
	if err != nil {
		return nil, err
	}

	if req.VolunteerCompleted != nil && *req.VolunteerCompleted != current.VolunteerCompleted {
		return nil, apperr.Conflict("volunteer completion can only be changed through the completion endpoint")
	}

	if changes.MainVolunteer != nil || changes.Category != nil || changes.Field != nil {
		mainID := current.MainVolunteer
		if changes.MainVolunteer != nil {
			mainID = *changes.MainVolunteer
		}
		category, field := effective(current, changes)
		if _, err := e.checkVolunteer(ctx, mainID, category, field); err != nil {
			return nil, err
		}
	}

	changes.UpdatedAt = e.now().UTC()
	updated, err := e.assignments.UpdateAssignment(ctx, id, changes)
	if err != nil {
		return nil, storeErr("failed to update assignment", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("assignment not found")
	}

	e.logger.Info("assignment updated", zap.String("assignment", id.Hex()), zap.String("by", p.DisplayName()))
	e.publish(ctx, models.EventAssignmentUpdated, updated, p)
	return updated, nil
}

// Delete removes the assignment. The linked report keeps its status.
func (e *Engine) Delete(ctx context.Context, p *models.Principal, id primitive.ObjectID) error {
	if err := requireAdmin(p); err != nil {
		return err
	}

	a, err := e.assignments.GetAssignment(ctx, id)
	if err != nil {
		return storeErr("failed to load assignment", err)
	}
	if a == nil {
		return apperr.NotFound("assignment not found")
	}

	deleted, err := e.assignments.DeleteAssignment(ctx, id)
	if err != nil {
		return storeErr("failed to delete assignment", err)
	}
	if !deleted {
		return apperr.NotFound("assignment not found")
	}

	e.logger.Info("assignment deleted", zap.String("assignment", id.Hex()), zap.String("by", p.DisplayName()))
	e.publish(ctx, models.EventAssignmentDeleted, a, p)
	return nil
}

func (e *Engine) publish(ctx context.Context, t models.EventType, a *models.VolunteerAssignment, p *models.Principal) {
	if e.events == nil {
		return
	}
	event := models.Event{
		Type:         t,
		AssignmentID: a.ID,
		IssueID:      a.IssueID,
		Actor:        p.DisplayName(),
		At:           e.now().UTC(),
	}
	if err := e.events.Publish(ctx, event); err != nil {
		e.logger.Warn("failed to publish event", zap.String("type", string(t)), zap.Error(err))
	}
}
