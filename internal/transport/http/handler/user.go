package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserHandler struct {
	users  *usecase.UserUsecase
	logger *slog.Logger
}

func NewUserHandler(users *usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.With("component", "user_handler")}
}

type createUserRequest struct {
	Email      string   `json:"email"      binding:"required,email"`
	Password   string   `json:"password"   binding:"required,min=8"`
	Roles      []string `json:"roles"      binding:"omitempty,dive,required"`
	IsVerified *bool    `json:"isVerified"`
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roleIDs, err := parseObjectIDs(req.Roles)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return
	}

	user, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		RoleIDs:  roleIDs,
		Verified: req.IsVerified,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GET /api/users?page=&limit=&search=&sort=&order=
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	users, total, err := h.users.List(c.Request.Context(), usecase.ListUsersInput{
		Page:     page,
		Limit:    limit,
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sort", "createdAt"),
		SortDesc: c.DefaultQuery("order", "desc") == "desc",
	})
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.respondUserError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Email      *string   `json:"email"      binding:"omitempty,email"`
	Password   *string   `json:"password"   binding:"omitempty,min=8"`
	Roles      *[]string `json:"roles"`
	IsVerified *bool     `json:"isVerified"`
}

// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.UpdateUserInput{
		Email:      req.Email,
		Password:   req.Password,
		IsVerified: req.IsVerified,
	}
	if req.Roles != nil {
		roleIDs, err := parseObjectIDs(*req.Roles)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
			return
		}
		input.RoleIDs = &roleIDs
	}

	user, err := h.users.Update(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
			return
		}
		h.respondUserError(c, "update user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.respondUserError(c, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted."})
}

// PATCH /api/users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	h.setVerified(c, true)
}

// PATCH /api/users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setVerified(c, false)
}

func (h *UserHandler) setVerified(c *gin.Context, verified bool) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	user, err := h.users.SetVerified(c.Request.Context(), id, verified)
	if err != nil {
		h.respondUserError(c, "set verified", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

// PATCH /api/users/:id/roles
func (h *UserHandler) ReplaceRoles(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req updateUserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roleIDs, err := parseObjectIDs(req.Roles)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return
	}

	user, err := h.users.ReplaceRoles(c.Request.Context(), id, roleIDs)
	if err != nil {
		h.respondUserError(c, "replace roles", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) pathID(c *gin.Context) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return bson.ObjectID{}, false
	}
	return id, true
}

func (h *UserHandler) respondUserError(c *gin.Context, op string, err error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		return
	}
	h.logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}

func parseObjectIDs(hexIDs []string) ([]bson.ObjectID, error) {
	ids := make([]bson.ObjectID, 0, len(hexIDs))
	for _, raw := range hexIDs {
		id, err := bson.ObjectIDFromHex(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
