package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// AuthzUsecase expands a user's role references into the effective
// permission set. Grant is by set membership only: there is no
// precedence or conflict model, and no role scoping at use time.
type AuthzUsecase struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
}

func NewAuthzUsecase(roles repository.RoleRepository, permissions repository.PermissionRepository) *AuthzUsecase {
	return &AuthzUsecase{roles: roles, permissions: permissions}
}

// Resolve flattens the user's roles into role names and a deduplicated
// union of permission names. Equivalent role sets resolve identically
// regardless of assignment order.
func (u *AuthzUsecase) Resolve(ctx context.Context, user *domain.User) (*domain.Access, error) {
	roles, err := u.roles.FindByIDs(ctx, user.RoleIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve roles: %w", err)
	}

	roleNames := make([]string, 0, len(roles))
	var permIDs []bson.ObjectID
	seenPerm := make(map[bson.ObjectID]struct{})
	for _, role := range roles {
		roleNames = append(roleNames, role.Name)
		for _, id := range role.PermissionIDs {
			if _, ok := seenPerm[id]; ok {
				continue
			}
			seenPerm[id] = struct{}{}
			permIDs = append(permIDs, id)
		}
	}

	perms, err := u.permissions.FindByIDs(ctx, permIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: %w", err)
	}

	permNames := make([]string, 0, len(perms))
	seenName := make(map[string]struct{})
	for _, perm := range perms {
		if _, ok := seenName[perm.Name]; ok {
			continue
		}
		seenName[perm.Name] = struct{}{}
		permNames = append(permNames, perm.Name)
	}

	return &domain.Access{Roles: roleNames, Permissions: permNames}, nil
}
