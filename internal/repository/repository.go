package repository

import (
	"alcyxob/gym-membership/internal/domain" // Import our defined domain models
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// MemberFilter narrows member listings. Zero value lists everyone.
type MemberFilter struct {
	Search       string // Case-insensitive match on name or email
	WithPlanOnly bool   // Only members that currently have an active plan
	Limit        int64
}

// MemberRepository persists the member aggregate (attendance, plan and history
// are embedded, so a single Save is the unit of consistency).
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
	List(ctx context.Context, filter MemberFilter) ([]domain.Member, error)
	Save(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository defines the interface for interacting with staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}
