package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	UserRoleUser  UserRole = "User"
	UserRoleAdmin UserRole = "Admin"
)

func (r UserRole) IsAdmin() bool {
	return strings.EqualFold(string(r), string(UserRoleAdmin))
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"`
	Role         UserRole           `bson:"role" json:"role"`
	JoinDate     time.Time          `bson:"joinDate" json:"joinDate"`
	Phone        string             `bson:"phone" json:"phone"`
	DateOfBirth  string             `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender       string             `bson:"gender" json:"gender"`
	Address      string             `bson:"address" json:"address"`
	City         string             `bson:"city" json:"city"`
	District     string             `bson:"district" json:"district"`
	State        string             `bson:"state" json:"state"`
	Pincode      string             `bson:"pincode" json:"pincode"`
	Panchayat    string             `bson:"panchayat" json:"panchayat"`
	WardNumber   string             `bson:"wardNumber" json:"wardNumber"`
	Occupation   string             `bson:"occupation" json:"occupation"`
	Organization string             `bson:"organization" json:"organization"`
	IDType       string             `bson:"idType" json:"idType"`
	IDNumber     string             `bson:"idNumber" json:"idNumber"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfilePatch lists the profile fields a user may change on their own record.
type ProfilePatch struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	DateOfBirth  *string `json:"dateOfBirth"`
	Gender       *string `json:"gender"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	District     *string `json:"district"`
	State        *string `json:"state"`
	Pincode      *string `json:"pincode"`
	Panchayat    *string `json:"panchayat"`
	WardNumber   *string `json:"wardNumber"`
	Occupation   *string `json:"occupation"`
	Organization *string `json:"organization"`
	IDType       *string `json:"idType"`
	IDNumber     *string `json:"idNumber"`
	ProfileImage *string `json:"profileImage"`
}

type Admin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
