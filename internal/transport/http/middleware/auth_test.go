package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/rbac-admin/internal/authctx"
	"github.com/ErlanBelekov/rbac-admin/internal/domain"
	"github.com/ErlanBelekov/rbac-admin/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const testKey = "middleware-test-secret-32-chars!!"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserLoader struct {
	findByID func(ctx context.Context, id bson.ObjectID) (*domain.User, error)
}

func (l *fakeUserLoader) FindByID(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	return l.findByID(ctx, id)
}

// newEngine builds a minimal gin engine with the Auth middleware protecting GET /protected.
// The handler writes the email of the context user so we can assert it was attached.
func newEngine(users *fakeUserLoader) *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.Auth([]byte(testKey), users), func(c *gin.Context) {
		user := authctx.FromContext(c.Request.Context())
		if user == nil {
			c.String(http.StatusInternalServerError, "no user in context")
			return
		}
		c.String(http.StatusOK, "%s", user.Email)
	})
	return r
}

func loaderFor(user *domain.User) *fakeUserLoader {
	return &fakeUserLoader{
		findByID: func(_ context.Context, id bson.ObjectID) (*domain.User, error) {
			if id != user.ID {
				return nil, domain.ErrUserNotFound
			}
			return user, nil
		},
	}
}

func makeJWT(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return s
}

func get(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID()}

	if w := get(newEngine(loaderFor(user)), ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID()}

	if w := get(newEngine(loaderFor(user)), "Basic dXNlcjpwYXNz"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidToken_Returns401(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID()}

	if w := get(newEngine(loaderFor(user)), "Bearer not.a.jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ExpiredToken_Returns401(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID()}
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": user.ID.Hex(),
		"exp": time.Now().Add(-time.Hour).Unix(),
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
	})

	if w := get(newEngine(loaderFor(user)), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_WrongSigningKey_Returns401(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID()}
	tok := makeJWT(t, []byte("different-key-that-is-32-chars!!"), jwt.MapClaims{
		"sub": user.ID.Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if w := get(newEngine(loaderFor(user)), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_SubjectNotAnObjectID_Returns401(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID()}
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": "not-an-object-id",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if w := get(newEngine(loaderFor(user)), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_DeletedUser_Returns401(t *testing.T) {
	// Token is well-formed and signed, but the account is gone.
	user := &domain.User{ID: bson.NewObjectID()}
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": bson.NewObjectID().Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if w := get(newEngine(loaderFor(user)), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ValidToken_AttachesUser(t *testing.T) {
	user := &domain.User{ID: bson.NewObjectID(), Email: "gate@example.com"}
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": user.ID.Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})

	w := get(newEngine(loaderFor(user)), "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != user.Email {
		t.Errorf("body = %q, want the context user's email", w.Body.String())
	}
}
