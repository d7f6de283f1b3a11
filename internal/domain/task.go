package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskName   = errors.New("task name cannot be empty")
	ErrTaskNameTooLong = errors.New("task name must be at most 100 characters long")
)

// maxTaskNameLength bounds the task name column.
const maxTaskNameLength = 100

// TaskStatus represents the workflow state of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusNew        TaskStatus = "NEW"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusSolved     TaskStatus = "SOLVED"
)

// NormalizeStatus maps free-form status input to its canonical enum form.
// Matching is case-insensitive and interior spaces map to underscores, so
// "In progress" and "in_progress" both normalize to IN_PROGRESS. An empty
// input normalizes to the default status NEW. Returns ErrInvalidStatus if
// the input does not correspond to any known status.
func NormalizeStatus(input string) (TaskStatus, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return TaskStatusNew, nil
	}

	normalized := TaskStatus(strings.ReplaceAll(strings.ToUpper(trimmed), " ", "_"))
	switch normalized {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusSolved:
		return normalized, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, input)
}

// Task represents a unit of trackable work.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`

	// AssignedUser references the user the task is assigned to.
	// Nil means unassigned. If the referenced user is removed, the
	// reference is cleared rather than cascading the delete.
	AssignedUser *uuid.UUID `json:"assigned_user"`

	// CreatedAt is stamped server-side at creation and never changes.
	CreatedAt time.Time `json:"created_at"`
}

// NewTask creates a new Task with the given fields. The raw status input is
// normalized to its canonical form, and CreatedAt is stamped at call time.
// Returns an error if validation fails.
func NewTask(name, description, status string, assignedUser *uuid.UUID) (*Task, error) {
	normalized, err := NormalizeStatus(status)
	if err != nil {
		return nil, err
	}

	task := &Task{
		ID:           uuid.New(),
		Name:         name,
		Description:  description,
		Status:       normalized,
		AssignedUser: assignedUser,
		CreatedAt:    time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if len(t.Name) > maxTaskNameLength {
		return ErrTaskNameTooLong
	}

	if _, err := NormalizeStatus(string(t.Status)); err != nil {
		return err
	}

	return nil
}
