package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/tasktrail-api/internal/domain"
)

// TaskFilter holds the optional, conjunctive predicates for task listings.
// A nil field imposes no constraint.
type TaskFilter struct {
	// Status matches tasks whose status equals the given canonical value.
	Status *domain.TaskStatus

	// Keyword matches tasks whose name or description contains the given
	// string, case-insensitively.
	Keyword *string

	// AssignedUser matches tasks assigned to the given user.
	AssignedUser *uuid.UUID
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the assigned user does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update replaces the mutable fields of an existing task. CreatedAt is
	// never touched. Returns ErrTaskNotFound if the task does not exist and
	// ErrInvalidEntity if the assigned user does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	// History entries for the task are left untouched.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns tasks matching the given filter, ordered by creation
	// time descending. A zero-value filter returns all tasks. Returns an
	// empty slice (not an error) when nothing matches.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
