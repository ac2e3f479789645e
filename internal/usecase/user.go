package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/repository"
	"github.com/ErlanBelekov/rbac-admin/internal/security"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const defaultPageSize = 10

// UserUsecase is the admin-facing credential store: CRUD over users
// with role population on reads and transparent secret hashing on
// writes.
type UserUsecase struct {
	users       repository.UserRepository
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	tokens      repository.TokenRepository
}

func NewUserUsecase(
	users repository.UserRepository,
	roles repository.RoleRepository,
	permissions repository.PermissionRepository,
	tokens repository.TokenRepository,
) *UserUsecase {
	return &UserUsecase{users: users, roles: roles, permissions: permissions, tokens: tokens}
}

type CreateUserInput struct {
	Email    string
	Password string
	RoleIDs  []bson.ObjectID
	// Admin-created accounts are verified unless stated otherwise.
	Verified *bool
}

type UpdateUserInput struct {
	Email      *string
	Password   *string
	IsVerified *bool
	RoleIDs    *[]bson.ObjectID
}

type ListUsersInput struct {
	Page     int64
	Limit    int64
	Search   string
	SortBy   string
	SortDesc bool
}

func (u *UserUsecase) Create(ctx context.Context, input CreateUserInput) (*domain.UserView, error) {
	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	verified := true
	if input.Verified != nil {
		verified = *input.Verified
	}

	user, err := u.users.Create(ctx, &domain.User{
		Email:      normalizeEmail(input.Email),
		Password:   hash,
		IsVerified: verified,
		RoleIDs:    input.RoleIDs,
	})
	if err != nil {
		return nil, err
	}
	return u.populate(ctx, user)
}

func (u *UserUsecase) Get(ctx context.Context, id bson.ObjectID) (*domain.UserView, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.populate(ctx, user)
}

func (u *UserUsecase) List(ctx context.Context, input ListUsersInput) ([]*domain.UserView, int64, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageSize
	}

	// Sort keys come straight from a query parameter; only known fields
	// reach the storage layer.
	sortBy := input.SortBy
	switch sortBy {
	case "email", "createdAt", "updatedAt":
	default:
		sortBy = "createdAt"
	}

	users, total, err := u.users.List(ctx, repository.ListUsersParams{
		Search:   input.Search,
		SortBy:   sortBy,
		SortDesc: input.SortDesc,
		Skip:     (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, err
	}

	views := make([]*domain.UserView, 0, len(users))
	for _, user := range users {
		view, err := u.populate(ctx, user)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

// Update re-hashes the secret only when a new one is supplied; all
// other fields pass through unchanged.
func (u *UserUsecase) Update(ctx context.Context, id bson.ObjectID, input UpdateUserInput) (*domain.UserView, error) {
	params := repository.UpdateUserParams{
		IsVerified: input.IsVerified,
		RoleIDs:    input.RoleIDs,
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		params.Email = &email
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		params.Password = &hash
	}

	user, err := u.users.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	return u.populate(ctx, user)
}

// Delete removes the user and every token of theirs, ending any live
// refresh lineage.
func (u *UserUsecase) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := u.users.Delete(ctx, id); err != nil {
		return err
	}
	return u.tokens.DeleteByUser(ctx, id)
}

func (u *UserUsecase) SetVerified(ctx context.Context, id bson.ObjectID, verified bool) (*domain.UserView, error) {
	user, err := u.users.Update(ctx, id, repository.UpdateUserParams{IsVerified: &verified})
	if err != nil {
		return nil, err
	}
	return u.populate(ctx, user)
}

func (u *UserUsecase) ReplaceRoles(ctx context.Context, id bson.ObjectID, roleIDs []bson.ObjectID) (*domain.UserView, error) {
	user, err := u.users.Update(ctx, id, repository.UpdateUserParams{RoleIDs: &roleIDs})
	if err != nil {
		return nil, err
	}
	return u.populate(ctx, user)
}

// populate is the read-time join: role references become role documents
// with their permissions expanded in turn. The stored form stays
// normalized.
func (u *UserUsecase) populate(ctx context.Context, user *domain.User) (*domain.UserView, error) {
	roles, err := u.roles.FindByIDs(ctx, user.RoleIDs)
	if err != nil {
		return nil, fmt.Errorf("populate roles: %w", err)
	}

	roleViews := make([]domain.RoleView, 0, len(roles))
	for _, role := range roles {
		perms, err := u.permissions.FindByIDs(ctx, role.PermissionIDs)
		if err != nil {
			return nil, fmt.Errorf("populate permissions: %w", err)
		}
		permissions := make([]domain.Permission, 0, len(perms))
		for _, p := range perms {
			permissions = append(permissions, *p)
		}
		roleViews = append(roleViews, domain.RoleView{Role: *role, Permissions: permissions})
	}

	return &domain.UserView{User: *user, Roles: roleViews}, nil
}
