package httptransport

import (
	"log/slog"
	"time"

	"github.com/ErlanBelekov/rbac-admin/internal/repository"
	"github.com/ErlanBelekov/rbac-admin/internal/transport/http/handler"
	"github.com/ErlanBelekov/rbac-admin/internal/transport/http/middleware"
	"github.com/ErlanBelekov/rbac-admin/internal/usecase"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// Auth endpoints are capped hard to slow credential guessing. The rest
// of the API gets a per-minute budget.
const (
	apiRateLimit   = 100
	apiRatePeriod  = time.Minute
	authRateLimit  = 10
	authRatePeriod = 15 * time.Minute
)

// Deps carries everything the router wires together.
type Deps struct {
	Logger      *slog.Logger
	Auth        *handler.AuthHandler
	Me          *handler.MeHandler
	Users       *handler.UserHandler
	Roles       *handler.RoleHandler
	Permissions *handler.PermissionHandler
	UserRepo    repository.UserRepository
	Authz       *usecase.AuthzUsecase
	AccessKey   []byte
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(d.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(apiRateLimit, apiRatePeriod))

	authMW := middleware.Auth(d.AccessKey, d.UserRepo)
	perm := func(name string) gin.HandlerFunc {
		return middleware.RequirePermission(d.Authz, name)
	}

	// Public auth surface, on its own tighter limiter
	auth := r.Group("/api/auth", middleware.RateLimit(authRateLimit, authRatePeriod))
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/reset-password", d.Auth.ResetPassword)
	auth.POST("/reset-password/confirm", d.Auth.ResetPasswordConfirm)
	auth.POST("/verify-email", d.Auth.VerifyEmail)

	r.GET("/api/me", authMW, d.Me.Get)

	// Resource routes: authenticated, each declaring the permission it
	// requires
	users := r.Group("/api/users", authMW)
	users.GET("", perm("user.read"), d.Users.List)
	users.GET("/:id", perm("user.read"), d.Users.GetByID)
	users.POST("", perm("user.create"), d.Users.Create)
	users.PUT("/:id", perm("user.update"), d.Users.Update)
	users.DELETE("/:id", perm("user.delete"), d.Users.Delete)
	users.PATCH("/:id/activate", perm("user.activate"), d.Users.Activate)
	users.PATCH("/:id/deactivate", perm("user.deactivate"), d.Users.Deactivate)
	users.PATCH("/:id/roles", perm("user.assignRole"), d.Users.ReplaceRoles)

	roles := r.Group("/api/roles", authMW)
	roles.GET("", perm("role.read"), d.Roles.List)
	roles.GET("/:id", perm("role.read"), d.Roles.GetByID)
	roles.POST("", perm("role.create"), d.Roles.Create)
	roles.PUT("/:id", perm("role.update"), d.Roles.Update)
	roles.DELETE("/:id", perm("role.delete"), d.Roles.Delete)

	permissions := r.Group("/api/permissions", authMW)
	permissions.GET("", perm("permission.read"), d.Permissions.List)
	permissions.GET("/:id", perm("permission.read"), d.Permissions.GetByID)
	permissions.POST("", perm("permission.create"), d.Permissions.Create)
	permissions.PUT("/:id", perm("permission.update"), d.Permissions.Update)
	permissions.DELETE("/:id", perm("permission.delete"), d.Permissions.Delete)

	return r
}
