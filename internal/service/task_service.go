// Package service contains the application services that orchestrate
// domain entities, stores, and transactions.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/events"
	"github.com/phrazzld/tasktrail-api/internal/store"
)

// TaskService provides task CRUD, filtering, and history retrieval.
//
// Every update and delete snapshots the task's prior state into the
// history log before the mutation is applied, and both writes happen in
// one database transaction: a failed history write aborts the mutation.
type TaskService interface {
	// CreateTask creates a new task. The status input is normalized to its
	// canonical form; CreatedAt is stamped server-side.
	CreateTask(ctx context.Context, name, description, status string, assignedUser *uuid.UUID) (*domain.Task, error)

	// GetTask retrieves a task by ID.
	// Returns store.ErrTaskNotFound if the task does not exist.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// UpdateTask replaces the task's mutable fields. The prior state is
	// recorded as a history entry before the update is applied.
	UpdateTask(ctx context.Context, id uuid.UUID, name, description, status string, assignedUser *uuid.UUID) (*domain.Task, error)

	// DeleteTask removes the task. The prior state is recorded as a
	// history entry (with its deletion marker set) before the row is
	// removed. History entries for the task survive the deletion.
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// ListTasks returns tasks matching the filter, newest first.
	// A zero-value filter returns all tasks.
	ListTasks(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)

	// GetTaskHistory returns the task's history entries, most recent
	// first. An empty slice means the task has no recorded history.
	GetTaskHistory(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskHistory, error)
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	db           *sql.DB
	taskStore    store.TaskStore
	historyStore store.TaskHistoryStore
	emitter      events.EventEmitter
	logger       *slog.Logger

	// runInTx is store.RunInTransaction, injectable for testing.
	runInTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	db *sql.DB,
	taskStore store.TaskStore,
	historyStore store.TaskHistoryStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskServiceImpl{
		db:           db,
		taskStore:    taskStore,
		historyStore: historyStore,
		emitter:      emitter,
		logger:       logger.With(slog.String("component", "task_service")),
		runInTx:      store.RunInTransaction,
	}
}

// emit publishes a task lifecycle event after a committed change.
// Emission failures are logged, never surfaced: the mutation already
// happened and handlers are observers.
func (s *TaskServiceImpl) emit(ctx context.Context, eventType string, taskID uuid.UUID) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, events.NewTaskEvent(eventType, taskID)); err != nil {
		s.logger.Warn("task event emission failed",
			"error", err,
			"event_type", eventType,
			"task_id", taskID)
	}
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// CreateTask creates a new task from the given fields.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	name, description, status string,
	assignedUser *uuid.UUID,
) (*domain.Task, error) {
	task, err := domain.NewTask(name, description, status, assignedUser)
	if err != nil {
		s.logger.Warn("invalid task data on create",
			"error", err,
			"name", name)
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"task_id", task.ID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.emit(ctx, events.TaskCreated, task.ID)
	s.logger.Info("task created",
		"task_id", task.ID,
		"status", task.Status)
	return task, nil
}

// GetTask retrieves a task by ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to retrieve task",
				"error", err,
				"task_id", id)
		}
		return nil, err
	}
	return task, nil
}

// UpdateTask records the task's prior state and applies the new field
// values within a single transaction.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	name, description, status string,
	assignedUser *uuid.UUID,
) (*domain.Task, error) {
	normalized, err := domain.NormalizeStatus(status)
	if err != nil {
		s.logger.Warn("invalid status on update",
			"status", status,
			"task_id", id)
		return nil, err
	}

	var updated *domain.Task
	err = s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)
		txHistory := s.historyStore.WithTx(tx)

		// Load the prior state inside the transaction so the snapshot and
		// the mutation see the same row.
		prior, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := txHistory.Create(ctx, domain.NewTaskHistory(prior, false)); err != nil {
			return fmt.Errorf("failed to record task history: %w", err)
		}

		task := &domain.Task{
			ID:           prior.ID,
			Name:         name,
			Description:  description,
			Status:       normalized,
			AssignedUser: assignedUser,
			CreatedAt:    prior.CreatedAt,
		}

		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}

		updated = task
		return nil
	})

	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to update task",
				"error", err,
				"task_id", id)
		}
		return nil, err
	}

	s.emit(ctx, events.TaskUpdated, id)
	s.logger.Info("task updated",
		"task_id", id,
		"status", updated.Status)
	return updated, nil
}

// DeleteTask records the task's prior state with its deletion marker and
// removes the row within a single transaction.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	err := s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)
		txHistory := s.historyStore.WithTx(tx)

		prior, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := txHistory.Create(ctx, domain.NewTaskHistory(prior, true)); err != nil {
			return fmt.Errorf("failed to record task history: %w", err)
		}

		return txTasks.Delete(ctx, id)
	})

	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to delete task",
				"error", err,
				"task_id", id)
		}
		return err
	}

	s.emit(ctx, events.TaskDeleted, id)
	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// ListTasks returns tasks matching the filter.
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTaskHistory returns the task's history, most recent first.
func (s *TaskServiceImpl) GetTaskHistory(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.TaskHistory, error) {
	entries, err := s.historyStore.ListByTaskID(ctx, taskID)
	if err != nil {
		s.logger.Error("failed to retrieve task history",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to retrieve task history: %w", err)
	}
	return entries, nil
}
