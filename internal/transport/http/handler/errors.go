package handler

const (
	errInternalServer     = "Internal server error"
	errInvalidCredentials = "Invalid email or password"
	errNotAuthenticated   = "Not authenticated"
	errTokenInvalid       = "Token is invalid or expired"
	errUserNotFound       = "User not found"
	errRoleNotFound       = "Role not found"
	errPermissionNotFound = "Permission not found"
	errEmailTaken         = "Email already registered"
	errNameTaken          = "Name already taken"
	errInvalidID          = "Invalid id"
)
