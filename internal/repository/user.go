package repository

import (
	"context"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UpdateUserParams carries the fields to change on a user. Only non-nil
// fields are written. Password must already be hashed; repositories
// never see plaintext.
type UpdateUserParams struct {
	Email      *string
	Password   *string
	IsVerified *bool
	RoleIDs    *[]bson.ObjectID
}

// ListUsersParams is skip/limit pagination with an optional
// case-insensitive email search and sort.
type ListUsersParams struct {
	Search   string
	SortBy   string
	SortDesc bool
	Skip     int64
	Limit    int64
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, params ListUsersParams) ([]*domain.User, int64, error)
	Update(ctx context.Context, id bson.ObjectID, params UpdateUserParams) (*domain.User, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
