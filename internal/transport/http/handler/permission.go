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

type PermissionHandler struct {
	permissions *usecase.PermissionUsecase
	logger      *slog.Logger
}

func NewPermissionHandler(permissions *usecase.PermissionUsecase, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		permissions: permissions,
		logger:      logger.With("component", "permission_handler"),
	}
}

type createPermissionRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /api/permissions
func (h *PermissionHandler) Create(c *gin.Context) {
	var req createPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permission, err := h.permissions.Create(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errNameTaken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create permission", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, permission)
}

// GET /api/permissions?page=&limit=
func (h *PermissionHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	permissions, total, err := h.permissions.List(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list permissions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"permissions": permissions,
		"page":        page,
		"totalPages":  (total + limit - 1) / limit,
		"totalCount":  total,
	})
}

// GET /api/permissions/:id
func (h *PermissionHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	permission, err := h.permissions.Get(c.Request.Context(), id)
	if err != nil {
		h.respondPermissionError(c, "get permission", err)
		return
	}
	c.JSON(http.StatusOK, permission)
}

type updatePermissionRequest struct {
	Name string `json:"name" binding:"required"`
}

// PUT /api/permissions/:id
func (h *PermissionHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req updatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	permission, err := h.permissions.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errNameTaken})
			return
		}
		h.respondPermissionError(c, "update permission", err)
		return
	}
	c.JSON(http.StatusOK, permission)
}

// DELETE /api/permissions/:id
func (h *PermissionHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.permissions.Delete(c.Request.Context(), id); err != nil {
		h.respondPermissionError(c, "delete permission", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permission deleted."})
}

func (h *PermissionHandler) pathID(c *gin.Context) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return bson.ObjectID{}, false
	}
	return id, true
}

func (h *PermissionHandler) respondPermissionError(c *gin.Context, op string, err error) {
	if errors.Is(err, domain.ErrPermissionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": errPermissionNotFound})
		return
	}
	h.logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}
