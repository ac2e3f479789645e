package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/rbac-admin/internal/authctx"
	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/gin-gonic/gin"
)

// accessResolver is the subset of AuthzUsecase the handler needs.
type accessResolver interface {
	Resolve(ctx context.Context, user *domain.User) (*domain.Access, error)
}

type MeHandler struct {
	authz  accessResolver
	logger *slog.Logger
}

func NewMeHandler(authz accessResolver, logger *slog.Logger) *MeHandler {
	return &MeHandler{
		authz:  authz,
		logger: logger.With("component", "me_handler"),
	}
}

type meResponse struct {
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// GET /api/me
// Answers with the caller's own email, role names, and effective
// permission set.
func (h *MeHandler) Get(c *gin.Context) {
	user := authctx.FromContext(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		return
	}

	access, err := h.authz.Resolve(c.Request.Context(), user)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "resolve access", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, meResponse{
		Email:       user.Email,
		Roles:       access.Roles,
		Permissions: access.Permissions,
	})
}
