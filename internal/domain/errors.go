package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNameTaken          = errors.New("name already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrUnauthenticated    = errors.New("not authenticated")
)
