package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type RoleUsecase struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
}

func NewRoleUsecase(roles repository.RoleRepository, permissions repository.PermissionRepository) *RoleUsecase {
	return &RoleUsecase{roles: roles, permissions: permissions}
}

func (u *RoleUsecase) Create(ctx context.Context, name string, permissionIDs []bson.ObjectID) (*domain.RoleView, error) {
	role, err := u.roles.Create(ctx, &domain.Role{Name: name, PermissionIDs: permissionIDs})
	if err != nil {
		return nil, err
	}
	return u.populate(ctx, role)
}

func (u *RoleUsecase) Get(ctx context.Context, id bson.ObjectID) (*domain.RoleView, error) {
	role, err := u.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.populate(ctx, role)
}

func (u *RoleUsecase) List(ctx context.Context, page, limit int64) ([]*domain.RoleView, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	roles, total, err := u.roles.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*domain.RoleView, 0, len(roles))
	for _, role := range roles {
		view, err := u.populate(ctx, role)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

func (u *RoleUsecase) Update(ctx context.Context, id bson.ObjectID, name *string, permissionIDs *[]bson.ObjectID) (*domain.RoleView, error) {
	role, err := u.roles.Update(ctx, id, repository.UpdateRoleParams{
		Name:          name,
		PermissionIDs: permissionIDs,
	})
	if err != nil {
		return nil, err
	}
	return u.populate(ctx, role)
}

func (u *RoleUsecase) Delete(ctx context.Context, id bson.ObjectID) error {
	return u.roles.Delete(ctx, id)
}

func (u *RoleUsecase) populate(ctx context.Context, role *domain.Role) (*domain.RoleView, error) {
	perms, err := u.permissions.FindByIDs(ctx, role.PermissionIDs)
	if err != nil {
		return nil, fmt.Errorf("populate permissions: %w", err)
	}

	permissions := make([]domain.Permission, 0, len(perms))
	for _, p := range perms {
		permissions = append(permissions, *p)
	}
	return &domain.RoleView{Role: *role, Permissions: permissions}, nil
}
