package usecase

import (
	"context"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// PermissionUsecase is a thin pass-through; permissions are leaf
// entities with no relations to expand.
type PermissionUsecase struct {
	permissions repository.PermissionRepository
}

func NewPermissionUsecase(permissions repository.PermissionRepository) *PermissionUsecase {
	return &PermissionUsecase{permissions: permissions}
}

func (u *PermissionUsecase) Create(ctx context.Context, name string) (*domain.Permission, error) {
	return u.permissions.Create(ctx, &domain.Permission{Name: name})
}

func (u *PermissionUsecase) Get(ctx context.Context, id bson.ObjectID) (*domain.Permission, error) {
	return u.permissions.FindByID(ctx, id)
}

func (u *PermissionUsecase) List(ctx context.Context, page, limit int64) ([]*domain.Permission, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	return u.permissions.List(ctx, (page-1)*limit, limit)
}

func (u *PermissionUsecase) Update(ctx context.Context, id bson.ObjectID, name string) (*domain.Permission, error) {
	return u.permissions.UpdateName(ctx, id, name)
}

func (u *PermissionUsecase) Delete(ctx context.Context, id bson.ObjectID) error {
	return u.permissions.Delete(ctx, id)
}
