package middleware

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/rbac-admin/internal/authctx"
	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/metrics"
	"github.com/gin-gonic/gin"
)

const errForbidden = "Forbidden"

// accessResolver is the subset of AuthzUsecase the gate needs.
type accessResolver interface {
	Resolve(ctx context.Context, user *domain.User) (*domain.Access, error)
}

// RequirePermission runs after Auth and rejects requests whose user's
// effective permission set does not contain the named permission. Each
// route declares the permission it needs here instead of checking
// inside its handler.
func RequirePermission(authz accessResolver, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := authctx.FromContext(c.Request.Context())
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		access, err := authz.Resolve(c.Request.Context(), user)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Internal server error"})
			return
		}

		if !access.Allows(permission) {
			metrics.PermissionDeniedTotal.WithLabelValues(permission).Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errForbidden})
			return
		}
		c.Next()
	}
}
