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

type RoleHandler struct {
	roles  *usecase.RoleUsecase
	logger *slog.Logger
}

func NewRoleHandler(roles *usecase.RoleUsecase, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{roles: roles, logger: logger.With("component", "role_handler")}
}

type createRoleRequest struct {
	Name        string   `json:"name"        binding:"required"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,required"`
}

// POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permIDs, err := parseObjectIDs(req.Permissions)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return
	}

	role, err := h.roles.Create(c.Request.Context(), req.Name, permIDs)
	if err != nil {
		if errors.Is(err, domain.ErrNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errNameTaken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create role", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, role)
}

// GET /api/roles?page=
func (h *RoleHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	roles, total, err := h.roles.List(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list roles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles":      roles,
		"page":       page,
		"totalPages": (total + limit - 1) / limit,
		"totalCount": total,
	})
}

// GET /api/roles/:id
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	role, err := h.roles.Get(c.Request.Context(), id)
	if err != nil {
		h.respondRoleError(c, "get role", err)
		return
	}
	c.JSON(http.StatusOK, role)
}

type updateRoleRequest struct {
	Name        *string   `json:"name"        binding:"omitempty,min=1"`
	Permissions *[]string `json:"permissions"`
}

// PUT /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var permIDs *[]bson.ObjectID
	if req.Permissions != nil {
		ids, err := parseObjectIDs(*req.Permissions)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
			return
		}
		permIDs = &ids
	}

	role, err := h.roles.Update(c.Request.Context(), id, req.Name, permIDs)
	if err != nil {
		if errors.Is(err, domain.ErrNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errNameTaken})
			return
		}
		h.respondRoleError(c, "update role", err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.roles.Delete(c.Request.Context(), id); err != nil {
		h.respondRoleError(c, "delete role", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role deleted."})
}

func (h *RoleHandler) pathID(c *gin.Context) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return bson.ObjectID{}, false
	}
	return id, true
}

func (h *RoleHandler) respondRoleError(c *gin.Context, op string, err error) {
	if errors.Is(err, domain.ErrRoleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errRoleNotFound})
		return
	}
	h.logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}
