package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/phrazzld/tasktrail-api/internal/domain"
)

// TaskHistoryStore defines the interface for the append-only task history
// log. Entries are immutable: there is no update or delete.
type TaskHistoryStore interface {
	// Create appends a history entry. It is invoked exactly once per task
	// update and once per task delete, inside the same transaction as the
	// mutation it records.
	Create(ctx context.Context, entry *domain.TaskHistory) error

	// ListByTaskID returns all history entries for the given task, ordered
	// by UpdatedAt descending. Returns an empty slice when the task has no
	// history; absence is not an error at this layer.
	ListByTaskID(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskHistory, error)

	// WithTx returns a new TaskHistoryStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) TaskHistoryStore
}
