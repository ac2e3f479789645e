package repository

import (
	"context"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type PermissionRepository interface {
	Create(ctx context.Context, permission *domain.Permission) (*domain.Permission, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*domain.Permission, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*domain.Permission, error)
	List(ctx context.Context, skip, limit int64) ([]*domain.Permission, int64, error)
	UpdateName(ctx context.Context, id bson.ObjectID, name string) (*domain.Permission, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}
