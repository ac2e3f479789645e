package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/metrics"
	"github.com/ErlanBelekov/rbac-admin/internal/notify"
	"github.com/ErlanBelekov/rbac-admin/internal/repository"
	"github.com/ErlanBelekov/rbac-admin/internal/security"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const accessTokenTTL = 15 * time.Minute

// TokenPair is what a successful login or refresh yields. The access
// token goes in the response body; the refresh token belongs in an
// HTTP-only cookie and is never returned in a body.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
}

// AuthUsecase orchestrates signup, login, refresh rotation, logout and
// the reset/verify flows. Access and refresh tokens are signed with
// distinct keys so a leaked access key cannot forge refresh tokens.
type AuthUsecase struct {
	users      repository.UserRepository
	ledger     *TokenLedger
	notifier   notify.Sender
	logger     *slog.Logger
	accessKey  []byte
	refreshKey []byte
}

func NewAuthUsecase(
	users repository.UserRepository,
	ledger *TokenLedger,
	notifier notify.Sender,
	logger *slog.Logger,
	accessKey, refreshKey []byte,
) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		ledger:     ledger,
		notifier:   notifier,
		logger:     logger.With("component", "auth_usecase"),
		accessKey:  accessKey,
		refreshKey: refreshKey,
	}
}

// Signup creates an unverified user and issues a 24h verify token.
// The raw token is returned to the caller, which stands in for an
// email delivery channel during development.
func (u *AuthUsecase) Signup(ctx context.Context, email, password string) (string, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return "", err
	}

	user, err := u.users.Create(ctx, &domain.User{
		Email:      normalizeEmail(email),
		Password:   hash,
		IsVerified: false,
	})
	if err != nil {
		return "", err
	}

	verifyToken, err := u.ledger.Issue(ctx, user.ID, domain.TokenVerify)
	if err != nil {
		return "", err
	}

	metrics.SignupsTotal.Inc()
	u.deliverToken(ctx, user.Email, "Verify your email", verifyToken)
	return verifyToken, nil
}

// Login checks credentials and mints an access/refresh pair. Unknown
// email and wrong password fail identically so callers cannot probe
// which accounts exist.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !security.VerifyPassword(password, user.Password) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := u.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("accepted").Inc()
	return pair, nil
}

// Refresh rotates a refresh token: signature check, single-use claim of
// the server-side record, then a fresh pair. A replayed value fails the
// claim even when its signature is still valid.
//
// The old record's deletion and the new one's insertion are not atomic
// across a crash; the failure mode is a logged-out user, never two live
// lineages.
func (u *AuthUsecase) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	if rawToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	if _, err := parseSubject(rawToken, u.refreshKey); err != nil {
		return nil, domain.ErrTokenInvalid
	}

	userID, err := u.ledger.Consume(ctx, rawToken, domain.TokenRefresh)
	if err != nil {
		return nil, err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return u.issuePair(ctx, user.ID)
}

// Logout revokes the refresh token if one is presented. It always
// succeeds so repeated logouts are harmless.
func (u *AuthUsecase) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return u.ledger.Revoke(ctx, rawToken)
}

// RequestPasswordReset issues a 1h reset token for the account and
// returns it (simulated delivery, same as Signup).
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}

	resetToken, err := u.ledger.Issue(ctx, user.ID, domain.TokenReset)
	if err != nil {
		return "", err
	}

	u.deliverToken(ctx, user.Email, "Reset your password", resetToken)
	return resetToken, nil
}

// ConfirmPasswordReset consumes a reset token and re-hashes the new
// secret. Only a live token proves ownership; there is no reset by bare
// email address.
func (u *AuthUsecase) ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error {
	userID, err := u.ledger.Consume(ctx, rawToken, domain.TokenReset)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := u.users.Update(ctx, userID, repository.UpdateUserParams{Password: &hash}); err != nil {
		return err
	}
	return nil
}

// VerifyEmail consumes a verify token and marks the account verified.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, rawToken string) error {
	userID, err := u.ledger.Consume(ctx, rawToken, domain.TokenVerify)
	if err != nil {
		return err
	}

	verified := true
	if _, err := u.users.Update(ctx, userID, repository.UpdateUserParams{IsVerified: &verified}); err != nil {
		return err
	}
	return nil
}

func (u *AuthUsecase) issuePair(ctx context.Context, userID bson.ObjectID) (*TokenPair, error) {
	access, err := signSubject(userID.Hex(), u.accessKey, accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := signSubject(userID.Hex(), u.refreshKey, domain.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := u.ledger.Save(ctx, userID, domain.TokenRefresh, refresh); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		RefreshTTL:   domain.RefreshTokenTTL,
	}, nil
}

// deliverToken hands the raw token to the notification side channel.
// Delivery failures are logged, not surfaced: the token is already in
// the API response, so the flow stays usable without a mail provider.
func (u *AuthUsecase) deliverToken(ctx context.Context, email, subject, token string) {
	body := fmt.Sprintf("<p>Your token:</p><p><code>%s</code></p>", token)
	if err := u.notifier.Send(ctx, email, subject, body); err != nil {
		u.logger.ErrorContext(ctx, "token delivery", "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func signSubject(sub string, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	// iat/exp have second granularity; jti keeps two tokens minted for
	// the same subject within one second distinct, so rotation always
	// produces a new value.
	claims := jwt.MapClaims{
		"sub": sub,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func parseSubject(rawToken string, key []byte) (string, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", domain.ErrTokenInvalid
	}
	return sub, nil
}
