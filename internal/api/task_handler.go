package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/tasktrail-api/internal/api/shared"
	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/platform/logger"
	"github.com/phrazzld/tasktrail-api/internal/service"
	"github.com/phrazzld/tasktrail-api/internal/store"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /task/create/ requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.taskService.CreateTask(
		r.Context(), req.Name, req.Description, req.Status, req.AssignedUser)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// GetTask handles GET /task/{id}/ requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// EditTask handles PUT and POST /task/edit/{id}/ requests.
// The task's prior state is recorded in the history log before the new
// field values are applied.
func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req TaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(
		r.Context(), taskID, req.Name, req.Description, req.Status, req.AssignedUser)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /task/edit/{id}/ and /task/delete/{id}/
// requests. The deletion is recorded in the history log, which outlives
// the task row.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListTasks handles GET /task/all/ requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context(), store.TaskFilter{})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// FilterTasks handles GET /task/filter/ requests.
// The status, keyword, and assigned_user query parameters are optional
// and conjunctive. An unknown status value is normalized like any other
// and simply matches nothing; the result is an empty list, not an error.
func (h *TaskHandler) FilterTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	filter := store.TaskFilter{}

	if rawStatus := r.URL.Query().Get("status"); rawStatus != "" {
		status := canonicalStatus(rawStatus)
		filter.Status = &status
	}

	if keyword := r.URL.Query().Get("keyword"); keyword != "" {
		filter.Keyword = &keyword
	}

	if rawAssignee := r.URL.Query().Get("assigned_user"); rawAssignee != "" {
		assignee, err := uuid.Parse(rawAssignee)
		if err != nil {
			log.Debug("invalid assigned_user filter", slog.String("value", rawAssignee))
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"assigned_user has invalid format")
			return
		}
		filter.AssignedUser = &assignee
	}

	tasks, err := h.taskService.ListTasks(r.Context(), filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to filter tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetUserTasks handles GET /user/tasks/{id}/ requests, listing tasks
// assigned to the given user.
func (h *TaskHandler) GetUserTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), store.TaskFilter{
		AssignedUser: &userID,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetTaskHistory handles GET /task/history/{id}/ requests.
// A task with no recorded history yields a 404, matching the established
// wire contract.
func (h *TaskHandler) GetTaskHistory(w http.ResponseWriter, r *http.Request) {
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.taskService.GetTaskHistory(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to retrieve task history", err)
		return
	}

	if len(entries) == 0 {
		shared.RespondWithError(w, r, http.StatusNotFound, "No history found for this task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// canonicalStatus applies the status normalization rules without
// rejecting unknown values: filtering by a status that does not exist
// matches no tasks.
func canonicalStatus(raw string) domain.TaskStatus {
	if normalized, err := domain.NormalizeStatus(raw); err == nil {
		return normalized
	}
	return domain.TaskStatus(strings.ReplaceAll(
		strings.ToUpper(strings.TrimSpace(raw)), " ", "_"))
}
