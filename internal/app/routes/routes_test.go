package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appauth "github.com/lifelearn/lifelearn/internal/app/auth"
	"github.com/lifelearn/lifelearn/internal/app/controllers"
	"github.com/lifelearn/lifelearn/internal/app/models"
	"github.com/lifelearn/lifelearn/internal/app/repositories"
	"github.com/lifelearn/lifelearn/internal/app/services"
	"github.com/lifelearn/lifelearn/internal/middleware"
	"github.com/lifelearn/lifelearn/internal/pkg/auth"
)

type staticRoleStore map[string]models.Role

func (s staticRoleStore) GetRoleByEmail(_ context.Context, email string) (models.Role, error) {
	return s[email], nil
}

// newTestRouter wires the route table with real middleware. Controller
// handlers are never reached in these tests; only the gate is exercised.
func newTestRouter(jwtService *auth.JWTService, roles staticRoleStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authMiddleware := middleware.NewAuthMiddleware(jwtService, appauth.NewAuthorizationService(roles))
	SetupRouter(router,
		&controllers.AuthController{},
		&controllers.UserController{},
		&controllers.CourseController{},
		&controllers.EnrollmentController{},
		authMiddleware,
	)
	return router
}

func issueToken(t *testing.T, svc *auth.JWTService, email string) string {
	t.Helper()
	token, _, err := svc.GenerateToken(email)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return token
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "routes-test-secret", AccessTokenExp: time.Hour, TokenIssuer: "lifelearn.test",
	})
	router := newTestRouter(jwtService, staticRoleStore{})

	cases := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/selections"},
		{http.MethodPost, "/api/v1/selections"},
		{http.MethodGet, "/api/v1/payments"},
		{http.MethodPost, "/api/v1/courses"},
		{http.MethodPatch, "/api/v1/courses/1/decision"},
		{http.MethodGet, "/api/v1/users"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: got %d, want 401", tc.method, tc.path, w.Code)
		}
	}
}

func TestExpiredTokenIsUnauthorized(t *testing.T) {
	expired := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "routes-test-secret", AccessTokenExp: -time.Minute, TokenIssuer: "lifelearn.test",
	})
	live := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "routes-test-secret", AccessTokenExp: time.Hour, TokenIssuer: "lifelearn.test",
	})
	router := newTestRouter(live, staticRoleStore{"admin@example.com": models.RoleAdmin})

	token := issueToken(t, expired, "admin@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: got %d, want 401", w.Code)
	}
}

func TestRoleGateDeniesWrongRole(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "routes-test-secret", AccessTokenExp: time.Hour, TokenIssuer: "lifelearn.test",
	})
	roles := staticRoleStore{
		"teach@example.com":   models.RoleInstructor,
		"admin@example.com":   models.RoleAdmin,
		"student@example.com": models.RoleNone,
	}
	router := newTestRouter(jwtService, roles)

	cases := []struct {
		name, email, method, path string
	}{
		{"student submitting course", "student@example.com", http.MethodPost, "/api/v1/courses"},
		{"instructor deciding course", "teach@example.com", http.MethodPatch, "/api/v1/courses/1/decision"},
		{"admin submitting course", "admin@example.com", http.MethodPost, "/api/v1/courses"},
		{"student listing users", "student@example.com", http.MethodGet, "/api/v1/users"},
		{"unknown caller listing pending", "ghost@example.com", http.MethodGet, "/api/v1/courses/pending"},
	}
	for _, tc := range cases {
		token := issueToken(t, jwtService, tc.email)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: got %d, want 403", tc.name, w.Code)
		}
	}
}

// stubUserStore backs a real user service in route tests. Only role
// lookups matter here.
type stubUserStore struct {
	roles staticRoleStore
}

func (s *stubUserStore) CreateUser(_ context.Context, _ *models.User) (int64, error) {
	return 0, nil
}

func (s *stubUserStore) GetUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubUserStore) GetUserByID(_ context.Context, _ int64) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubUserStore) GetRoleByEmail(ctx context.Context, email string) (models.Role, error) {
	return s.roles.GetRoleByEmail(ctx, email)
}

func (s *stubUserStore) UpdateRole(_ context.Context, _ int64, _ models.Role) error { return nil }

func (s *stubUserStore) DeleteUser(_ context.Context, _ int64) error { return nil }

func (s *stubUserStore) GetAllUsers(_ context.Context) ([]*models.User, error) { return nil, nil }

func (s *stubUserStore) GetUsersByRole(_ context.Context, _ models.Role) ([]*models.User, error) {
	return nil, nil
}

func TestRoleQueryEnforcesOwnership(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "routes-test-secret", AccessTokenExp: time.Hour, TokenIssuer: "lifelearn.test",
	})
	roles := staticRoleStore{
		"alice@example.com": models.RoleNone,
		"bob@example.com":   models.RoleAdmin,
	}
	store := &stubUserStore{roles: roles}
	userService := services.NewUserService(store, appauth.NewAuthorizationService(store), zerolog.Nop())

	router := gin.New()
	SetupRouter(router,
		&controllers.AuthController{},
		controllers.NewUserController(userService),
		&controllers.CourseController{},
		&controllers.EnrollmentController{},
		middleware.NewAuthMiddleware(jwtService, appauth.NewAuthorizationService(roles)),
	)

	token := issueToken(t, jwtService, "alice@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/bob@example.com/role", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("querying another identity's role: got %d, want 403", w.Code)
	}
	if strings.Contains(w.Body.String(), string(models.RoleAdmin)) {
		t.Errorf("response discloses the queried role: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/alice@example.com/role", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("querying own role: got %d, want 200", w.Code)
	}
}

func TestWelcomeRouteIsPublic(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "routes-test-secret", AccessTokenExp: time.Hour, TokenIssuer: "lifelearn.test",
	})
	router := newTestRouter(jwtService, staticRoleStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("welcome route: got %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Welcome") {
		t.Errorf("welcome route body: %s", w.Body.String())
	}
}
