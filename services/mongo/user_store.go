package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/civicfix/civicback/models"
	"github.com/civicfix/civicback/services/mongo/command"
	"github.com/civicfix/civicback/services/mongo/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService struct {
	*MongoService
}

func NewUserService(mongoService *MongoService) *UserService {
	return &UserService{MongoService: mongoService}
}

func (s *UserService) collection() *mongo.Collection {
	return s.GetCollection(usersCollection)
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	ok, err := query.FindByID(ctx, s.collection(), id, &u)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return found(&u, ok, nil)
}

func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	ok, err := query.FindOne(ctx, s.collection(), bson.M{"email": email}, &u)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return found(&u, ok, nil)
}

func (s *UserService) InsertUser(ctx context.Context, u *models.User) error {
	if err := command.InsertOne(ctx, s.collection(), u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, p models.ProfilePatch, at time.Time) (*models.User, error) {
	u := command.NewUpdateBuilder().Set("updatedAt", at)
	command.SetPtr(u, "name", p.Name)
	command.SetPtr(u, "email", p.Email)
	command.SetPtr(u, "phone", p.Phone)
	command.SetPtr(u, "dateOfBirth", p.DateOfBirth)
	command.SetPtr(u, "gender", p.Gender)
	command.SetPtr(u, "address", p.Address)
	command.SetPtr(u, "city", p.City)
	command.SetPtr(u, "district", p.District)
	command.SetPtr(u, "state", p.State)
	command.SetPtr(u, "pincode", p.Pincode)
	command.SetPtr(u, "panchayat", p.Panchayat)
	command.SetPtr(u, "wardNumber", p.WardNumber)
	command.SetPtr(u, "occupation", p.Occupation)
	command.SetPtr(u, "organization", p.Organization)
	command.SetPtr(u, "idType", p.IDType)
	command.SetPtr(u, "idNumber", p.IDNumber)
	command.SetPtr(u, "profileImage", p.ProfileImage)

	var user models.User
	ok, err := command.UpdateByID(ctx, s.collection(), id, u.Build(), &user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return found(&user, ok, nil)
}

type AdminService struct {
	*MongoService
}

func NewAdminService(mongoService *MongoService) *AdminService {
	return &AdminService{MongoService: mongoService}
}

func (s *AdminService) collection() *mongo.Collection {
	return s.GetCollection(adminsCollection)
}

func (s *AdminService) GetAdmin(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var a models.Admin
	ok, err := query.FindByID(ctx, s.collection(), id, &a)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return found(&a, ok, nil)
}

func (s *AdminService) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	ok, err := query.FindOne(ctx, s.collection(), bson.M{"email": email}, &a)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return found(&a, ok, nil)
}

func (s *AdminService) InsertAdmin(ctx context.Context, a *models.Admin) error {
	if err := command.InsertOne(ctx, s.collection(), a); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}
