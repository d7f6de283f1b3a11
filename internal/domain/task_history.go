package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskHistory is an immutable snapshot of a task's state, written
// immediately before the task is edited or deleted. Entries are never
// updated or removed once written, and they outlive the task itself so
// the audit trail survives deletion.
type TaskHistory struct {
	ID uuid.UUID `json:"id"`

	// TaskID references the task this snapshot belongs to. There is
	// deliberately no foreign key behind this reference: history entries
	// must remain after the task row is gone.
	TaskID uuid.UUID `json:"task_id"`

	Name         string     `json:"name"`
	Description  string     `json:"description"`
	AssignedUser *uuid.UUID `json:"assigned_user"`

	// CreatedAt carries the task's original creation time, unchanged.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the time this snapshot was written.
	UpdatedAt time.Time `json:"updated_at"`

	// DeletedAt is set only when the snapshot was produced by a delete,
	// distinguishing delete-triggered entries from edit-triggered ones.
	DeletedAt *time.Time `json:"deleted_at"`
}

// NewTaskHistory builds a history entry from the task's pre-mutation state.
// The deletion flag marks entries produced by a delete rather than an edit.
func NewTaskHistory(task *Task, deletion bool) *TaskHistory {
	now := time.Now().UTC()

	entry := &TaskHistory{
		ID:           uuid.New(),
		TaskID:       task.ID,
		Name:         task.Name,
		Description:  task.Description,
		AssignedUser: task.AssignedUser,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    now,
	}

	if deletion {
		entry.DeletedAt = &now
	}

	return entry
}
