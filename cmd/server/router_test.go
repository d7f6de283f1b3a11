package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrail-api/internal/config"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/service/auth"
	"github.com/phrazzld/tasktrail-api/internal/store"
)

// stubTaskService satisfies service.TaskService with empty results.
type stubTaskService struct{}

func (stubTaskService) CreateTask(_ context.Context, name, description, status string, assignedUser *uuid.UUID) (*domain.Task, error) {
	return domain.NewTask(name, description, status, assignedUser)
}

func (stubTaskService) GetTask(context.Context, uuid.UUID) (*domain.Task, error) {
	return nil, store.ErrTaskNotFound
}

func (stubTaskService) UpdateTask(_ context.Context, _ uuid.UUID, _, _, _ string, _ *uuid.UUID) (*domain.Task, error) {
	return nil, store.ErrTaskNotFound
}

func (stubTaskService) DeleteTask(context.Context, uuid.UUID) error {
	return store.ErrTaskNotFound
}

func (stubTaskService) ListTasks(context.Context, store.TaskFilter) ([]*domain.Task, error) {
	return []*domain.Task{}, nil
}

func (stubTaskService) GetTaskHistory(context.Context, uuid.UUID) ([]*domain.TaskHistory, error) {
	return []*domain.TaskHistory{}, nil
}

// stubUserStore satisfies store.UserStore with empty results.
type stubUserStore struct{}

func (stubUserStore) Create(context.Context, *domain.User) error { return nil }
func (stubUserStore) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}
func (stubUserStore) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}
func (stubUserStore) List(context.Context) ([]*domain.User, error) {
	return []*domain.User{}, nil
}
func (stubUserStore) UsernameExists(context.Context, string) (bool, error) { return false, nil }
func (stubUserStore) EmailExists(context.Context, string) (bool, error)    { return false, nil }

func (s stubUserStore) WithTx(*sql.Tx) store.UserStore { return s }

func newTestApplication(t *testing.T) *application {
	t.Helper()

	authCfg := config.AuthConfig{
		JWTSecret:                   "test-secret-key-thats-long-enough-for-hmac",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
		BcryptCost:                  4,
	}

	jwtService, err := auth.NewJWTService(authCfg)
	require.NoError(t, err)

	verifier := auth.NewBcryptVerifier(4)

	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 8080, LogLevel: "error"},
			Auth:   authCfg,
		},
		logger:           slog.Default(),
		userStore:        stubUserStore{},
		jwtService:       jwtService,
		passwordHasher:   verifier,
		passwordVerifier: verifier,
		taskService:      stubTaskService{},
	}
}

func TestRouterHealthCheck(t *testing.T) {
	router := newTestApplication(t).setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouterMutationsRequireAuth(t *testing.T) {
	router := newTestApplication(t).setupRouter()
	id := uuid.New().String()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/task/create/"},
		{http.MethodPut, "/task/edit/" + id + "/"},
		{http.MethodPost, "/task/edit/" + id + "/"},
		{http.MethodDelete, "/task/edit/" + id + "/"},
		{http.MethodDelete, "/task/delete/" + id + "/"},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code,
				"mutating endpoints must reject unauthenticated requests")
		})
	}
}

func TestRouterReadSurfaceIsPublic(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	// Both slash forms are accepted.
	paths := []string{
		"/task/all/",
		"/task/all",
		"/task/filter/",
		"/user/all/",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestRouterAuthenticatedMutation(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	token, err := app.jwtService.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/task/create/",
		strings.NewReader(`{"name":"Authenticated create"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
