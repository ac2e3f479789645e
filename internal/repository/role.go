package repository

import (
	"context"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UpdateRoleParams carries the fields to change on a role. Only non-nil
// fields are written.
type UpdateRoleParams struct {
	Name          *string
	PermissionIDs *[]bson.ObjectID
}

type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Role, error)
	// FindByIDs is the read-time join used for role population. Unknown
	// IDs are skipped, not errors.
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*domain.Role, error)
	List(ctx context.Context, skip, limit int64) ([]*domain.Role, int64, error)
	Update(ctx context.Context, id bson.ObjectID, params UpdateRoleParams) (*domain.Role, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
