package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/transport/http/handler"
	"github.com/ErlanBelekov/rbac-admin/internal/usecase"
	"github.com/gin-gonic/gin"
	"io"
	"log/slog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	signup               func(ctx context.Context, email, password string) (string, error)
	login                func(ctx context.Context, email, password string) (*usecase.TokenPair, error)
	refresh              func(ctx context.Context, rawToken string) (*usecase.TokenPair, error)
	logout               func(ctx context.Context, rawToken string) error
	requestPasswordReset func(ctx context.Context, email string) (string, error)
	confirmPasswordReset func(ctx context.Context, rawToken, newPassword string) error
	verifyEmail          func(ctx context.Context, rawToken string) error
}

func (f *fakeAuthUsecase) Signup(ctx context.Context, email, password string) (string, error) {
	return f.signup(ctx, email, password)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.TokenPair, error) {
	return f.login(ctx, email, password)
}

func (f *fakeAuthUsecase) Refresh(ctx context.Context, rawToken string) (*usecase.TokenPair, error) {
	return f.refresh(ctx, rawToken)
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, rawToken string) error {
	return f.logout(ctx, rawToken)
}

func (f *fakeAuthUsecase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return f.requestPasswordReset(ctx, email)
}

func (f *fakeAuthUsecase) ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error {
	return f.confirmPasswordReset(ctx, rawToken, newPassword)
}

func (f *fakeAuthUsecase) VerifyEmail(ctx context.Context, rawToken string) error {
	return f.verifyEmail(ctx, rawToken)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthEngine(uc *fakeAuthUsecase) *gin.Engine {
	h := handler.NewAuthHandler(uc, testLogger())

	r := gin.New()
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	r.POST("/api/auth/refresh", h.Refresh)
	r.POST("/api/auth/reset-password", h.ResetPassword)
	r.POST("/api/auth/reset-password/confirm", h.ResetPasswordConfirm)
	r.POST("/api/auth/verify-email", h.VerifyEmail)
	return r
}

func postJSON(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func testPair() *usecase.TokenPair {
	return &usecase.TokenPair{
		AccessToken:  "access.jwt.value",
		RefreshToken: "refresh.jwt.value",
		RefreshTTL:   7 * 24 * time.Hour,
	}
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ---- Signup ----

func TestSignup_Created_ReturnsVerifyToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		signup: func(_ context.Context, email, password string) (string, error) {
			return "raw-verify-token", nil
		},
	}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/signup",
		`{"email":"new@example.com","password":"LongEnough1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["verifyToken"] != "raw-verify-token" {
		t.Errorf("verifyToken = %q, want the issued token", body["verifyToken"])
	}
}

func TestSignup_ShortPassword_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/signup",
		`{"email":"new@example.com","password":"short"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_EmailTaken_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		signup: func(context.Context, string, string) (string, error) {
			return "", domain.ErrEmailTaken
		},
	}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/signup",
		`{"email":"dupe@example.com","password":"LongEnough1"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

// ---- Login ----

func TestLogin_SetsRefreshCookieAndReturnsAccessToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(context.Context, string, string) (*usecase.TokenPair, error) {
			return testPair(), nil
		},
	}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/login",
		`{"email":"test@example.com","password":"whatever1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["accessToken"] != "access.jwt.value" {
		t.Errorf("accessToken = %q", body["accessToken"])
	}
	if strings.Contains(w.Body.String(), "refresh.jwt.value") {
		t.Error("refresh token leaked into the response body")
	}

	cookie := findCookie(t, w, "refreshToken")
	if cookie == nil {
		t.Fatal("refreshToken cookie not set")
	}
	if cookie.Value != "refresh.jwt.value" {
		t.Errorf("cookie value = %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if !cookie.Secure {
		t.Error("cookie is not Secure")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie SameSite = %v, want Strict", cookie.SameSite)
	}
	if cookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("cookie MaxAge = %d, want the refresh TTL in seconds", cookie.MaxAge)
	}
}

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(context.Context, string, string) (*usecase.TokenPair, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/login",
		`{"email":"ghost@example.com","password":"whatever1"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if findCookie(t, w, "refreshToken") != nil {
		t.Error("cookie set on failed login")
	}
}

// ---- Refresh ----

func TestRefresh_RotatesCookie(t *testing.T) {
	var receivedToken string
	uc := &fakeAuthUsecase{
		refresh: func(_ context.Context, rawToken string) (*usecase.TokenPair, error) {
			receivedToken = rawToken
			return testPair(), nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "old-refresh-value"})
	newAuthEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if receivedToken != "old-refresh-value" {
		t.Errorf("usecase received %q, want the cookie value", receivedToken)
	}
	cookie := findCookie(t, w, "refreshToken")
	if cookie == nil || cookie.Value != "refresh.jwt.value" {
		t.Error("rotated refresh cookie not set")
	}
}

func TestRefresh_NoCookie_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		refresh: func(_ context.Context, rawToken string) (*usecase.TokenPair, error) {
			if rawToken == "" {
				return nil, domain.ErrUnauthenticated
			}
			return testPair(), nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	newAuthEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRefresh_InvalidToken_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		refresh: func(context.Context, string) (*usecase.TokenPair, error) {
			return nil, domain.ErrTokenInvalid
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "replayed-value"})
	newAuthEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// ---- Logout ----

func TestLogout_AlwaysSucceedsAndClearsCookie(t *testing.T) {
	uc := &fakeAuthUsecase{
		logout: func(context.Context, string) error { return nil },
	}
	engine := newAuthEngine(uc)

	// With and without a cookie, same outcome.
	for _, withCookie := range []bool{true, false} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		if withCookie {
			req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "some-value"})
		}
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("withCookie=%v: status = %d, want 200", withCookie, w.Code)
		}
	}
}

func TestLogout_RevokeError_StillReturns200(t *testing.T) {
	uc := &fakeAuthUsecase{
		logout: func(context.Context, string) error { return errors.New("db down") },
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "some-value"})
	newAuthEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	cookie := findCookie(t, w, "refreshToken")
	if cookie == nil || cookie.MaxAge != -1 {
		t.Error("refresh cookie not cleared")
	}
}

// ---- Password reset ----

func TestResetPassword_UnknownEmail_Returns404(t *testing.T) {
	uc := &fakeAuthUsecase{
		requestPasswordReset: func(context.Context, string) (string, error) {
			return "", domain.ErrUserNotFound
		},
	}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/reset-password",
		`{"email":"ghost@example.com"}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestResetPasswordConfirm_InvalidToken_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		confirmPasswordReset: func(context.Context, string, string) error {
			return domain.ErrTokenInvalid
		},
	}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/reset-password/confirm",
		`{"token":"stale","password":"LongEnough1"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResetPasswordConfirm_ShortPassword_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/reset-password/confirm",
		`{"token":"live-token","password":"short"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---- Verify email ----

func TestVerifyEmail_OK(t *testing.T) {
	var receivedToken string
	uc := &fakeAuthUsecase{
		verifyEmail: func(_ context.Context, rawToken string) error {
			receivedToken = rawToken
			return nil
		},
	}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/verify-email",
		`{"token":"raw-verify-token"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if receivedToken != "raw-verify-token" {
		t.Errorf("usecase received %q", receivedToken)
	}
}

func TestVerifyEmail_InvalidToken_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		verifyEmail: func(context.Context, string) error {
			return domain.ErrTokenInvalid
		},
	}

	w := postJSON(t, newAuthEngine(uc), "/api/auth/verify-email",
		`{"token":"used-already"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
