package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrail-api/internal/api"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/store"
)

// memoryTaskService is an in-memory TaskService used to exercise the
// handlers without a database. It mirrors the service contract: every
// update and delete records the prior state in the history log first.
type memoryTaskService struct {
	tasks   map[uuid.UUID]*domain.Task
	history map[uuid.UUID][]*domain.TaskHistory

	listErr error
}

func newMemoryTaskService() *memoryTaskService {
	return &memoryTaskService{
		tasks:   make(map[uuid.UUID]*domain.Task),
		history: make(map[uuid.UUID][]*domain.TaskHistory),
	}
}

func (s *memoryTaskService) CreateTask(
	_ context.Context,
	name, description, status string,
	assignedUser *uuid.UUID,
) (*domain.Task, error) {
	task, err := domain.NewTask(name, description, status, assignedUser)
	if err != nil {
		return nil, err
	}
	s.tasks[task.ID] = task
	return task, nil
}

func (s *memoryTaskService) GetTask(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task with ID %s", store.ErrTaskNotFound, id)
	}
	return task, nil
}

func (s *memoryTaskService) UpdateTask(
	_ context.Context,
	id uuid.UUID,
	name, description, status string,
	assignedUser *uuid.UUID,
) (*domain.Task, error) {
	normalized, err := domain.NormalizeStatus(status)
	if err != nil {
		return nil, err
	}

	prior, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task with ID %s", store.ErrTaskNotFound, id)
	}

	s.history[id] = append(s.history[id], domain.NewTaskHistory(prior, false))

	updated := &domain.Task{
		ID:           prior.ID,
		Name:         name,
		Description:  description,
		Status:       normalized,
		AssignedUser: assignedUser,
		CreatedAt:    prior.CreatedAt,
	}
	s.tasks[id] = updated
	return updated, nil
}

func (s *memoryTaskService) DeleteTask(_ context.Context, id uuid.UUID) error {
	prior, ok := s.tasks[id]
	if !ok {
		return fmt.Errorf("%w: task with ID %s", store.ErrTaskNotFound, id)
	}
	s.history[id] = append(s.history[id], domain.NewTaskHistory(prior, true))
	delete(s.tasks, id)
	return nil
}

func (s *memoryTaskService) ListTasks(
	_ context.Context,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}

	result := []*domain.Task{}
	for _, task := range s.tasks {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Keyword != nil {
			kw := strings.ToLower(*filter.Keyword)
			if !strings.Contains(strings.ToLower(task.Name), kw) &&
				!strings.Contains(strings.ToLower(task.Description), kw) {
				continue
			}
		}
		if filter.AssignedUser != nil {
			if task.AssignedUser == nil || *task.AssignedUser != *filter.AssignedUser {
				continue
			}
		}
		result = append(result, task)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *memoryTaskService) GetTaskHistory(
	_ context.Context,
	taskID uuid.UUID,
) ([]*domain.TaskHistory, error) {
	entries := s.history[taskID]
	sorted := make([]*domain.TaskHistory, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	return sorted, nil
}

func newTaskRouter(svc *memoryTaskService) chi.Router {
	handler := api.NewTaskHandler(svc, nil)

	r := chi.NewRouter()
	r.Post("/task/create/", handler.CreateTask)
	r.Get("/task/all/", handler.ListTasks)
	r.Get("/task/filter/", handler.FilterTasks)
	r.Get("/task/{id}/", handler.GetTask)
	r.Put("/task/edit/{id}/", handler.EditTask)
	r.Post("/task/edit/{id}/", handler.EditTask)
	r.Delete("/task/edit/{id}/", handler.DeleteTask)
	r.Delete("/task/delete/{id}/", handler.DeleteTask)
	r.Get("/task/history/{id}/", handler.GetTaskHistory)
	r.Get("/user/tasks/{id}/", handler.GetUserTasks)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTaskLifecycle(t *testing.T) {
	svc := newMemoryTaskService()
	router := newTaskRouter(svc)

	// Create with a lowercase spaced status; it must come back canonical.
	rec := doJSON(t, router, http.MethodPost, "/task/create/", map[string]any{
		"name":        "Fix login bug",
		"description": "Session cookie not cleared on logout",
		"status":      "in progress",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, domain.TaskStatusInProgress, created.Status)
	assert.NotEqual(t, uuid.Nil, created.ID)

	// Creation records no history.
	rec = doJSON(t, router, http.MethodGet, "/task/history/"+created.ID.String()+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Edit: the prior state lands in the history log.
	rec = doJSON(t, router, http.MethodPut, "/task/edit/"+created.ID.String()+"/", map[string]any{
		"name":        "Fix login bug",
		"description": "Session cookie not cleared on logout",
		"status":      "solved",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, domain.TaskStatusSolved, updated.Status)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt),
		"edits must not touch the creation timestamp")

	rec = doJSON(t, router, http.MethodGet, "/task/history/"+created.ID.String()+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []domain.TaskHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, created.ID, entries[0].TaskID)
	assert.Equal(t, "Fix login bug", entries[0].Name)
	assert.Nil(t, entries[0].DeletedAt)

	// Delete: a second history entry appears, this one with the deletion
	// marker, and the task itself is gone.
	rec = doJSON(t, router, http.MethodDelete, "/task/delete/"+created.ID.String()+"/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/task/"+created.ID.String()+"/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/task/history/"+created.ID.String()+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code, "history must survive deletion")

	entries = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.NotNil(t, entries[0].DeletedAt, "newest entry is the deletion snapshot")
	assert.Nil(t, entries[1].DeletedAt)
}

func TestCreateTaskValidation(t *testing.T) {
	router := newTaskRouter(newMemoryTaskService())

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{
			name:       "missing name",
			payload:    map[string]any{"description": "no name"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "name too long",
			payload:    map[string]any{"name": strings.Repeat("x", 101)},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown status",
			payload:    map[string]any{"name": "ok", "status": "BOGUS"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty status defaults to NEW",
			payload:    map[string]any{"name": "ok"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/task/create/", tc.payload)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())

			if tc.wantStatus == http.StatusCreated {
				var task domain.Task
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
				assert.Equal(t, domain.TaskStatusNew, task.Status)
			}
		})
	}
}

func TestGetTaskInvalidID(t *testing.T) {
	router := newTaskRouter(newMemoryTaskService())

	rec := doJSON(t, router, http.MethodGet, "/task/not-a-uuid/", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditTaskNotFound(t *testing.T) {
	router := newTaskRouter(newMemoryTaskService())

	rec := doJSON(t, router, http.MethodPut, "/task/edit/"+uuid.New().String()+"/", map[string]any{
		"name": "ghost",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilterTasks(t *testing.T) {
	svc := newMemoryTaskService()
	router := newTaskRouter(svc)

	alice := uuid.New()
	bob := uuid.New()

	seed := []struct {
		name, description, status string
		assignee                  *uuid.UUID
	}{
		{"Deploy release", "ship v2 to production", "NEW", &alice},
		{"Write docs", "document the deploy process", "IN_PROGRESS", &alice},
		{"Fix flaky test", "deploy pipeline test is flaky", "NEW", &bob},
		{"Triage inbox", "", "SOLVED", nil},
	}
	for _, s := range seed {
		_, err := svc.CreateTask(context.Background(), s.name, s.description, s.status, s.assignee)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	decode := func(rec *httptest.ResponseRecorder) []domain.Task {
		t.Helper()
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var tasks []domain.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
		return tasks
	}

	t.Run("status only", func(t *testing.T) {
		tasks := decode(doJSON(t, router, http.MethodGet, "/task/filter/?status=new", nil))
		assert.Len(t, tasks, 2)
	})

	t.Run("status with spaces is canonicalized", func(t *testing.T) {
		tasks := decode(doJSON(t, router, http.MethodGet, "/task/filter/?status=in+progress", nil))
		require.Len(t, tasks, 1)
		assert.Equal(t, "Write docs", tasks[0].Name)
	})

	t.Run("keyword matches name or description", func(t *testing.T) {
		tasks := decode(doJSON(t, router, http.MethodGet, "/task/filter/?keyword=deploy", nil))
		assert.Len(t, tasks, 3)
	})

	t.Run("conjunctive filters", func(t *testing.T) {
		tasks := decode(doJSON(t, router, http.MethodGet,
			"/task/filter/?status=NEW&keyword=deploy&assigned_user="+alice.String(), nil))
		require.Len(t, tasks, 1)
		assert.Equal(t, "Deploy release", tasks[0].Name)
	})

	t.Run("unknown status matches nothing", func(t *testing.T) {
		tasks := decode(doJSON(t, router, http.MethodGet, "/task/filter/?status=ARCHIVED", nil))
		assert.Empty(t, tasks)
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		tasks := decode(doJSON(t, router, http.MethodGet, "/task/filter/", nil))
		assert.Len(t, tasks, 4)
	})

	t.Run("malformed assigned_user", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/task/filter/?assigned_user=nope", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("user tasks endpoint", func(t *testing.T) {
		tasks := decode(doJSON(t, router, http.MethodGet, "/user/tasks/"+bob.String()+"/", nil))
		require.Len(t, tasks, 1)
		assert.Equal(t, "Fix flaky test", tasks[0].Name)
	})
}

func TestListTasksServiceFailure(t *testing.T) {
	svc := newMemoryTaskService()
	svc.listErr = fmt.Errorf("connection refused")
	router := newTaskRouter(svc)

	rec := doJSON(t, router, http.MethodGet, "/task/all/", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
