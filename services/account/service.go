// Package account handles citizen registration, credential checks for
// users and administrators, and self-service profile edits.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/apperr"
	"github.com/civicfix/civicback/services/media"
	"github.com/civicfix/civicback/services/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "invalid email or password"

type UserStore interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch, at time.Time) (*models.User, error)
}

type AdminStore interface {
	GetAdmin(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	InsertAdmin(ctx context.Context, a *models.Admin) error
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ImageRequest struct {
	Image string `json:"image" validate:"required"`
}

type Service struct {
	users    UserStore
	admins   AdminStore
	uploader *media.Uploader
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(users UserStore, admins AdminStore, uploader *media.Uploader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:    users,
		admins:   admins,
		uploader: uploader,
		logger:   logger.Named("account"),
		now:      time.Now,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Internal("failed to check email", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	now := s.now().UTC()
	u := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hash),
		Role:      models.UserRoleUser,
		JoinDate:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.InsertUser(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Conflict("email already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	s.logger.Info("user registered", zap.String("user", u.ID.Hex()))
	return u, nil
}

// Login checks user credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return nil, apperr.Unauthenticated(invalidCredentials)
	}
	return u, nil
}

func (s *Service) AdminLogin(ctx context.Context, req LoginRequest) (*models.Admin, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	a, err := s.admins.FindAdminByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Internal("failed to load admin", err)
	}
	if a == nil || bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(req.Password)) != nil {
		return nil, apperr.Unauthenticated(invalidCredentials)
	}
	return a, nil
}

// EnsureAdmin creates the default administrator when no admin with that
// email exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	existing, err := s.admins.FindAdminByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a := &models.Admin{Email: email, Name: "Admin", Password: string(hash), CreatedAt: s.now().UTC()}
	if err := s.admins.InsertAdmin(ctx, a); err != nil && !errors.Is(err, apperr.ErrDuplicate) {
		return err
	}
	s.logger.Info("default admin created", zap.String("email", email))
	return nil
}

// Resolve maps a token subject to the principal it names, or nil when the
// subject no longer exists.
func (s *Service) Resolve(ctx context.Context, kind models.PrincipalKind, id primitive.ObjectID) (*models.Principal, error) {
	switch kind {
	case models.PrincipalAdmin:
		a, err := s.admins.GetAdmin(ctx, id)
		if err != nil || a == nil {
			return nil, err
		}
		return &models.Principal{ID: a.ID, Kind: kind, Name: a.Name, Email: a.Email, IsAdmin: true}, nil
	case models.PrincipalUser:
		u, err := s.users.GetUser(ctx, id)
		if err != nil || u == nil {
			return nil, err
		}
		return &models.Principal{ID: u.ID, Kind: kind, Name: u.Name, Email: u.Email, IsAdmin: u.Role.IsAdmin()}, nil
	default:
		return nil, nil
	}
}

func requireSelf(p *models.Principal, id primitive.ObjectID) error {
	if p == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if p.ID != id {
		return apperr.Forbidden("unauthorized access")
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, p *models.Principal, id primitive.ObjectID) (*models.User, error) {
	if err := requireSelf(p, id); err != nil {
		return nil, err
	}
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, p *models.Principal, id primitive.ObjectID, patch models.ProfilePatch) (*models.User, error) {
	if err := requireSelf(p, id); err != nil {
		return nil, err
	}
	if patch.Email != nil {
		e := normalizeEmail(*patch.Email)
		patch.Email = &e
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	current, err := s.Profile(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if patch.Email != nil && *patch.Email != current.Email {
		other, err := s.users.FindUserByEmail(ctx, *patch.Email)
		if err != nil {
			return nil, apperr.Internal("failed to check email", err)
		}
		if other != nil && other.ID != id {
			return nil, apperr.Conflict("email already exists")
		}
	}

	u, err := s.users.UpdateUser(ctx, id, patch, s.now().UTC())
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Conflict("email already exists")
		}
		return nil, apperr.Internal("failed to update user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

// UploadProfileImage stores a data-URL image and records its URL on the
// caller's profile.
func (s *Service) UploadProfileImage(ctx context.Context, p *models.Principal, id primitive.ObjectID, req ImageRequest) (*models.User, error) {
	if err := requireSelf(p, id); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	img, err := s.uploader.Upload(ctx, "profiles", req.Image)
	if err != nil {
		return nil, err
	}
	return s.UpdateProfile(ctx, p, id, models.ProfilePatch{ProfileImage: &img.URL})
}
