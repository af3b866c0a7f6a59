// Package memory is an in-process implementation of every store interface,
// used by service and handler tests. It enforces the same uniqueness rules
// as the Mongo indexes.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrUnavailable is returned by every method once Fail has been called.
var ErrUnavailable = errors.New("store unavailable")

type financeKey struct {
	entityType models.EntityType
	entityID   int
	year       int
}

type Store struct {
	mu sync.RWMutex

	volunteers    map[primitive.ObjectID]models.Volunteer
	reports       map[primitive.ObjectID]models.Report
	assignments   map[primitive.ObjectID]models.VolunteerAssignment
	users         map[primitive.ObjectID]models.User
	admins        map[primitive.ObjectID]models.Admin
	notifications map[primitive.ObjectID]models.Notification
	finances      map[financeKey]models.Finance
	discussions   map[primitive.ObjectID]models.Discussion
	feedback      []models.Feedback

	failing bool
}

func New() *Store {
	return &Store{
		volunteers:    map[primitive.ObjectID]models.Volunteer{},
		reports:       map[primitive.ObjectID]models.Report{},
		assignments:   map[primitive.ObjectID]models.VolunteerAssignment{},
		users:         map[primitive.ObjectID]models.User{},
		admins:        map[primitive.ObjectID]models.Admin{},
		notifications: map[primitive.ObjectID]models.Notification{},
		finances:      map[financeKey]models.Finance{},
		discussions:   map[primitive.ObjectID]models.Discussion{},
	}
}

// Fail makes every subsequent call return ErrUnavailable.
func (s *Store) Fail() {
	s.mu.Lock()
	s.failing = true
	s.mu.Unlock()
}

func (s *Store) check() error {
	if s.failing {
		return ErrUnavailable
	}
	return nil
}

func assignID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func duplicate(what string) error {
	return fmt.Errorf("%w: %s", apperr.ErrDuplicate, what)
}

// newestFirst orders by creation time descending, then by id descending.
func newestFirst(ti, tj time.Time, idi, idj primitive.ObjectID) bool {
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return idi.Hex() > idj.Hex()
}

// Volunteers

func (s *Store) ListVolunteers(_ context.Context, category models.SkillCategory) ([]*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := []*models.Volunteer{}
	for _, v := range s.volunteers {
		if category != "" && !v.HasSkill(category) {
			continue
		}
		v := v
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetVolunteer(_ context.Context, id primitive.ObjectID) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	v, ok := s.volunteers[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *Store) FindVolunteersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Volunteer, error) {
	out := []*models.Volunteer{}
	for _, id := range ids {
		v, err := s.GetVolunteer(ctx, id)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) FindVolunteerByContact(_ context.Context, contact string) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	for _, v := range s.volunteers {
		if v.Contact == contact {
			return &v, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertVolunteer(_ context.Context, v *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	for _, other := range s.volunteers {
		if other.Contact == v.Contact {
			return duplicate("contact")
		}
	}
	assignID(&v.ID)
	s.volunteers[v.ID] = *v
	return nil
}

func (s *Store) UpdateVolunteer(_ context.Context, id primitive.ObjectID, changes models.VolunteerChanges) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	v, ok := s.volunteers[id]
	if !ok {
		return nil, nil
	}
	if changes.Contact != nil {
		for oid, other := range s.volunteers {
			if oid != id && other.Contact == *changes.Contact {
				return nil, duplicate("contact")
			}
		}
	}
	changes.Apply(&v)
	s.volunteers[id] = v
	return &v, nil
}

func (s *Store) DeleteVolunteer(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return false, err
	}
	if _, ok := s.volunteers[id]; !ok {
		return false, nil
	}
	delete(s.volunteers, id)
	return true, nil
}

// Reports

func (s *Store) InsertReport(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	assignID(&r.ID)
	s.reports[r.ID] = *r
	return nil
}

func (s *Store) GetReport(_ context.Context, id primitive.ObjectID) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	r, ok := s.reports[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *Store) FindReportsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Report, error) {
	out := []*models.Report{}
	for _, id := range ids {
		r, err := s.GetReport(ctx, id)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) ListReports(_ context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := []*models.Report{}
	for _, r := range s.reports {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) UpdateReport(_ context.Context, id primitive.ObjectID, changes models.ReportChanges) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	r, ok := s.reports[id]
	if !ok {
		return nil, nil
	}
	changes.Apply(&r)
	s.reports[id] = r
	return &r, nil
}

func (s *Store) SetResolved(_ context.Context, id primitive.ObjectID, resolvedBy string, resolvedAt time.Time, resolution string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	r, ok := s.reports[id]
	if !ok {
		return nil, nil
	}
	r.Status = models.StatusResolved
	r.ResolvedAt = &resolvedAt
	r.ResolvedBy = resolvedBy
	if resolution != "" {
		r.Resolution = resolution
	}
	r.UpdatedAt = resolvedAt
	s.reports[id] = r
	return &r, nil
}

// Assignments

func (s *Store) ListAssignments(_ context.Context) ([]*models.VolunteerAssignment, error) {
	return s.listAssignments(nil)
}

func (s *Store) ListAssignmentsByIssue(_ context.Context, issueID primitive.ObjectID) ([]*models.VolunteerAssignment, error) {
	return s.listAssignments(&issueID)
}

func (s *Store) listAssignments(issueID *primitive.ObjectID) ([]*models.VolunteerAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := []*models.VolunteerAssignment{}
	for _, a := range s.assignments {
		if issueID != nil && a.IssueID != *issueID {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) GetAssignment(_ context.Context, id primitive.ObjectID) (*models.VolunteerAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	a, ok := s.assignments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Store) FindAssignmentByIssue(_ context.Context, issueID primitive.ObjectID) (*models.VolunteerAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	for _, a := range s.assignments {
		if a.IssueID == issueID {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertAssignment(_ context.Context, a *models.VolunteerAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	for _, other := range s.assignments {
		if other.IssueID == a.IssueID {
			return duplicate("issueId")
		}
	}
	assignID(&a.ID)
	s.assignments[a.ID] = *a
	return nil
}

func (s *Store) UpdateAssignment(_ context.Context, id primitive.ObjectID, changes models.AssignmentChanges) (*models.VolunteerAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	a, ok := s.assignments[id]
	if !ok {
		return nil, nil
	}
	changes.Apply(&a)
	s.assignments[id] = a
	return &a, nil
}

func (s *Store) MarkVolunteerCompleted(_ context.Context, id primitive.ObjectID, notes *string, at time.Time) (*models.VolunteerAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	a, ok := s.assignments[id]
	if !ok || a.VolunteerCompleted {
		return nil, nil
	}
	a.VolunteerCompleted = true
	if notes != nil {
		a.CompletionNotes = *notes
	}
	a.UpdatedAt = at
	s.assignments[id] = a
	return &a, nil
}

func (s *Store) DeleteAssignment(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return false, err
	}
	if _, ok := s.assignments[id]; !ok {
		return false, nil
	}
	delete(s.assignments, id)
	return true, nil
}

// Users and admins

func (s *Store) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	for _, other := range s.users {
		if other.Email == u.Email {
			return duplicate("email")
		}
	}
	assignID(&u.ID)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) UpdateUser(_ context.Context, id primitive.ObjectID, p models.ProfilePatch, at time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	if p.Email != nil {
		for oid, other := range s.users {
			if oid != id && other.Email == *p.Email {
				return nil, duplicate("email")
			}
		}
	}
	applyProfile(&u, p)
	u.UpdatedAt = at
	s.users[id] = u
	return &u, nil
}

func applyProfile(u *models.User, p models.ProfilePatch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.Phone, p.Phone)
	set(&u.DateOfBirth, p.DateOfBirth)
	set(&u.Gender, p.Gender)
	set(&u.Address, p.Address)
	set(&u.City, p.City)
	set(&u.District, p.District)
	set(&u.State, p.State)
	set(&u.Pincode, p.Pincode)
	set(&u.Panchayat, p.Panchayat)
	set(&u.WardNumber, p.WardNumber)
	set(&u.Occupation, p.Occupation)
	set(&u.Organization, p.Organization)
	set(&u.IDType, p.IDType)
	set(&u.IDNumber, p.IDNumber)
	set(&u.ProfileImage, p.ProfileImage)
}

func (s *Store) GetAdmin(_ context.Context, id primitive.ObjectID) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	a, ok := s.admins[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Store) FindAdminByEmail(_ context.Context, email string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	for _, a := range s.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *Store) InsertAdmin(_ context.Context, a *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	for _, other := range s.admins {
		if other.Email == a.Email {
			return duplicate("email")
		}
	}
	assignID(&a.ID)
	s.admins[a.ID] = *a
	return nil
}

// Notifications

func (s *Store) InsertNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	assignID(&n.ID)
	s.notifications[n.ID] = *n
	return nil
}

func (s *Store) ListNotifications(_ context.Context, userID primitive.ObjectID, status models.NotificationStatus) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := []*models.Notification{}
	for _, n := range s.notifications {
		if n.UserID != userID || (status != "" && n.Status != status) {
			continue
		}
		n := n
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id, userID primitive.ObjectID, at time.Time) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return nil, nil
	}
	n.Status = models.NotificationStatusRead
	n.ReadAt = &at
	s.notifications[id] = n
	return &n, nil
}

// Finances

func (s *Store) UpsertFinance(_ context.Context, f *models.Finance) (*models.Finance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	key := financeKey{f.EntityType, f.EntityID, f.Year}
	stored := *f
	if existing, ok := s.finances[key]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	assignID(&stored.ID)
	s.finances[key] = stored
	return &stored, nil
}

func (s *Store) ListFinances(_ context.Context, entityType models.EntityType, entityID int, fromYear, toYear int) ([]*models.Finance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := []*models.Finance{}
	for k, f := range s.finances {
		if k.entityType != entityType || k.entityID != entityID {
			continue
		}
		if (fromYear != 0 || toYear != 0) && (f.Year < fromYear || f.Year > toYear) {
			continue
		}
		f := f
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (s *Store) DeleteFinance(_ context.Context, entityType models.EntityType, entityID, year int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return false, err
	}
	key := financeKey{entityType, entityID, year}
	if _, ok := s.finances[key]; !ok {
		return false, nil
	}
	delete(s.finances, key)
	return true, nil
}

// Discussions

func (s *Store) ListDiscussions(_ context.Context, f models.DiscussionFilter) ([]*models.Discussion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	search := strings.ToLower(f.Search)
	out := []*models.Discussion{}
	for _, d := range s.discussions {
		if f.Category != "" && string(d.Category) != f.Category {
			continue
		}
		if search != "" && !matchesSearch(d, search) {
			continue
		}
		if f.Tab == models.TabBookmarked && f.UserID != nil && !containsID(d.BookmarkedBy, *f.UserID) {
			continue
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool {
		switch f.Tab {
		case models.TabTrending:
			if out[i].Likes != out[j].Likes {
				return out[i].Likes > out[j].Likes
			}
			return out[i].TimePosted.After(out[j].TimePosted)
		case models.TabRecent:
			return out[i].TimePosted.After(out[j].TimePosted)
		default:
			return out[i].ID.Hex() < out[j].ID.Hex()
		}
	})
	return out, nil
}

func matchesSearch(d models.Discussion, search string) bool {
	if strings.Contains(strings.ToLower(d.Title), search) || strings.Contains(strings.ToLower(d.Content), search) {
		return true
	}
	for _, t := range d.Tags {
		if strings.Contains(strings.ToLower(t), search) {
			return true
		}
	}
	return false
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func (s *Store) GetDiscussion(_ context.Context, id primitive.ObjectID) (*models.Discussion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	d, ok := s.discussions[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *Store) InsertDiscussion(_ context.Context, d *models.Discussion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	assignID(&d.ID)
	s.discussions[d.ID] = *d
	return nil
}

func (s *Store) mutateDiscussion(id primitive.ObjectID, fn func(*models.Discussion)) (*models.Discussion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	d, ok := s.discussions[id]
	if !ok {
		return nil, nil
	}
	fn(&d)
	s.discussions[id] = d
	return &d, nil
}

func (s *Store) LikeDiscussion(_ context.Context, id primitive.ObjectID) (*models.Discussion, error) {
	return s.mutateDiscussion(id, func(d *models.Discussion) { d.Likes++ })
}

func (s *Store) SetBookmark(_ context.Context, id, userID primitive.ObjectID, bookmarked bool) (*models.Discussion, error) {
	return s.mutateDiscussion(id, func(d *models.Discussion) {
		kept := make([]primitive.ObjectID, 0, len(d.BookmarkedBy)+1)
		for _, x := range d.BookmarkedBy {
			if x != userID {
				kept = append(kept, x)
			}
		}
		if bookmarked {
			kept = append(kept, userID)
		}
		d.BookmarkedBy = kept
	})
}

func (s *Store) AddComment(_ context.Context, id primitive.ObjectID, c models.DiscussionComment) (*models.Discussion, error) {
	return s.mutateDiscussion(id, func(d *models.Discussion) {
		comments := make([]models.DiscussionComment, 0, len(d.Comments)+1)
		d.Comments = append(append(comments, d.Comments...), c)
	})
}

// Feedback

func (s *Store) InsertFeedback(_ context.Context, f *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	assignID(&f.ID)
	s.feedback = append(s.feedback, *f)
	return nil
}

// Feedback returns everything submitted so far.
func (s *Store) Feedback() []models.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Feedback(nil), s.feedback...)
}
