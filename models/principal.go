package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalAdmin PrincipalKind = "admin"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	ID      primitive.ObjectID `json:"id"`
	Kind    PrincipalKind      `json:"kind"`
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	IsAdmin bool               `json:"isAdmin"`
}

// DisplayName is used when stamping records with the acting principal.
func (p *Principal) DisplayName() string {
	switch {
	case p == nil:
		return "Admin"
	case p.Name != "":
		return p.Name
	case p.Email != "":
		return p.Email
	case p.IsAdmin:
		return "Admin"
	default:
		return p.ID.Hex()
	}
}
