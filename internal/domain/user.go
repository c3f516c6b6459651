package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between staff roles
type Role string

// Define constants for roles
const (
	RoleAdmin Role = "admin" // Can delete members and archived plans
	RoleStaff Role = "staff" // Front desk: check-ins and plans
)

// User is a staff account allowed to operate the API.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidRole reports whether r is a known staff role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleStaff
}
