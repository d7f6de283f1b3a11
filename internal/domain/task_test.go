package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrail-api/internal/domain"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.TaskStatus
		wantErr error
	}{
		{
			name:  "canonical_new",
			input: "NEW",
			want:  domain.TaskStatusNew,
		},
		{
			name:  "lowercase_solved",
			input: "solved",
			want:  domain.TaskStatusSolved,
		},
		{
			name:  "spaces_map_to_underscores",
			input: "In progress",
			want:  domain.TaskStatusInProgress,
		},
		{
			name:  "mixed_case_underscore",
			input: "in_Progress",
			want:  domain.TaskStatusInProgress,
		},
		{
			name:  "surrounding_whitespace",
			input: "  new  ",
			want:  domain.TaskStatusNew,
		},
		{
			name:  "empty_defaults_to_new",
			input: "",
			want:  domain.TaskStatusNew,
		},
		{
			name:    "unknown_status",
			input:   "DONE",
			wantErr: domain.ErrInvalidStatus,
		},
		{
			name:    "garbage",
			input:   "!!!",
			wantErr: domain.ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NormalizeStatus(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTask(t *testing.T) {
	assignee := uuid.New()

	tests := []struct {
		name        string
		taskName    string
		description string
		status      string
		assignee    *uuid.UUID
		wantStatus  domain.TaskStatus
		wantErr     error
	}{
		{
			name:        "valid_task_with_assignee",
			taskName:    "Fix bug",
			description: "NPE on login",
			status:      "New",
			assignee:    &assignee,
			wantStatus:  domain.TaskStatusNew,
		},
		{
			name:       "empty_status_defaults_to_new",
			taskName:   "Triage",
			status:     "",
			wantStatus: domain.TaskStatusNew,
		},
		{
			name:       "status_normalized",
			taskName:   "Investigate",
			status:     "in progress",
			wantStatus: domain.TaskStatusInProgress,
		},
		{
			name:     "unknown_status_rejected",
			taskName: "Bad",
			status:   "DONE",
			wantErr:  domain.ErrInvalidStatus,
		},
		{
			name:     "empty_name_rejected",
			taskName: "",
			status:   "NEW",
			wantErr:  domain.ErrEmptyTaskName,
		},
		{
			name:     "name_too_long_rejected",
			taskName: strings.Repeat("x", 101),
			status:   "NEW",
			wantErr:  domain.ErrTaskNameTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now().UTC()
			task, err := domain.NewTask(tt.taskName, tt.description, tt.status, tt.assignee)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, task.ID)
			assert.Equal(t, tt.taskName, task.Name)
			assert.Equal(t, tt.description, task.Description)
			assert.Equal(t, tt.wantStatus, task.Status)
			assert.Equal(t, tt.assignee, task.AssignedUser)
			assert.False(t, task.CreatedAt.Before(before))
		})
	}
}

func TestNewTaskHistory(t *testing.T) {
	assignee := uuid.New()
	task, err := domain.NewTask("Fix bug", "NPE on login", "NEW", &assignee)
	require.NoError(t, err)

	t.Run("edit_snapshot", func(t *testing.T) {
		entry := domain.NewTaskHistory(task, false)

		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, task.ID, entry.TaskID)
		assert.Equal(t, task.Name, entry.Name)
		assert.Equal(t, task.Description, entry.Description)
		assert.Equal(t, task.AssignedUser, entry.AssignedUser)
		assert.Equal(t, task.CreatedAt, entry.CreatedAt)
		assert.False(t, entry.UpdatedAt.Before(task.CreatedAt))
		assert.Nil(t, entry.DeletedAt)
	})

	t.Run("delete_snapshot_sets_deleted_at", func(t *testing.T) {
		entry := domain.NewTaskHistory(task, true)

		require.NotNil(t, entry.DeletedAt)
		assert.Equal(t, entry.UpdatedAt, *entry.DeletedAt)
	})
}
