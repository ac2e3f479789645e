package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/usecase"
	"github.com/gin-gonic/gin"
)

// refreshCookie carries the refresh token between login/refresh/logout.
// HTTP-only and SameSite=Strict: scripts never read it and cross-site
// requests never send it.
const refreshCookie = "refreshToken"

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Signup(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (*usecase.TokenPair, error)
	Refresh(ctx context.Context, rawToken string) (*usecase.TokenPair, error)
	Logout(ctx context.Context, rawToken string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error
	VerifyEmail(ctx context.Context, rawToken string) error
}

type AuthHandler struct {
	auth   authUsecaser
	logger *slog.Logger
}

func NewAuthHandler(auth authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With("component", "auth_handler"),
	}
}

type signupRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /api/auth/signup
// The verify token is returned in the body, standing in for an email
// delivery channel.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verifyToken, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errEmailTaken})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "signup", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Signed up. Verify token delivered (simulated).",
		"verifyToken": verifyToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
// The access token goes in the body, the refresh token only in the
// cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	h.setRefreshCookie(c, pair)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

// POST /api/auth/logout
// Always 200: revoking an unknown or absent token is a no-op.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, _ := c.Cookie(refreshCookie)
	if err := h.auth.Logout(c.Request.Context(), rawToken); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "logout", "error", err)
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// POST /api/auth/refresh
// Rotates the refresh cookie; a replayed cookie fails with 401.
func (h *AuthHandler) Refresh(c *gin.Context) {
	rawToken, _ := c.Cookie(refreshCookie)

	pair, err := h.auth.Refresh(c.Request.Context(), rawToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUserNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "refresh", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	h.setRefreshCookie(c, pair)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

type resetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resetToken, err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "reset password request", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Password reset requested. Reset token delivered (simulated).",
		"resetToken": resetToken,
	})
}

type resetPasswordConfirmRequest struct {
	Token    string `json:"token"    binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /api/auth/reset-password/confirm
// A live reset token is the only accepted proof of ownership.
func (h *AuthHandler) ResetPasswordConfirm(c *gin.Context) {
	var req resetPasswordConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenInvalid})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "reset password confirm", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset."})
}

type verifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// POST /api/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenInvalid})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "verify email", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified."})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, pair *usecase.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, pair.RefreshToken, int(pair.RefreshTTL.Seconds()), "/", "", true, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, "", -1, "/", "", true, true)
}
