package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/rbac-admin/internal/authctx"
	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeResolver struct {
	resolve func(ctx context.Context, user *domain.User) (*domain.Access, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, user *domain.User) (*domain.Access, error) {
	return f.resolve(ctx, user)
}

// newMeEngine mounts GET /api/me, optionally injecting an authenticated
// user the way the auth middleware would.
func newMeEngine(resolver *fakeResolver, user *domain.User) *gin.Engine {
	h := handler.NewMeHandler(resolver, testLogger())

	r := gin.New()
	r.GET("/api/me", func(c *gin.Context) {
		if user != nil {
			c.Request = c.Request.WithContext(authctx.WithUser(c.Request.Context(), user))
		}
		h.Get(c)
	})
	return r
}

func TestMe_ReturnsRolesAndPermissions(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID(), Email: "viewer@example.com"}
	resolver := &fakeResolver{
		resolve: func(_ context.Context, got *domain.User) (*domain.Access, error) {
			if got.ID != user.ID {
				t.Errorf("resolver got user %v, want %v", got.ID, user.ID)
			}
			return &domain.Access{
				Roles:       []string{"viewer"},
				Permissions: []string{"user.read", "role.read"},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	newMeEngine(resolver, user).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Email       string   `json:"email"`
		Roles       []string `json:"roles"`
		Permissions []string `json:"permissions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Email != user.Email {
		t.Errorf("email = %q, want %q", body.Email, user.Email)
	}
	if len(body.Roles) != 1 || body.Roles[0] != "viewer" {
		t.Errorf("roles = %v", body.Roles)
	}
	if len(body.Permissions) != 2 {
		t.Errorf("permissions = %v", body.Permissions)
	}
}

func TestMe_NoUserInContext_Returns401(t *testing.T) {
	resolver := &fakeResolver{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	newMeEngine(resolver, nil).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMe_ResolveError_Returns500(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID(), Email: "viewer@example.com"}
	resolver := &fakeResolver{
		resolve: func(context.Context, *domain.User) (*domain.Access, error) {
			return nil, errors.New("db down")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	newMeEngine(resolver, user).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
