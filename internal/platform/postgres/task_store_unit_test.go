package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/store"
)

func TestBuildTaskListQuery(t *testing.T) {
	status := domain.TaskStatusSolved
	keyword := "login"
	wildcardKeyword := "50%_done"
	backslashKeyword := `C:\temp`
	assignee := uuid.New()

	tests := []struct {
		name         string
		filter       store.TaskFilter
		wantContains []string
		wantMissing  []string
		wantArgs     []any
	}{
		{
			name:        "no_filter_selects_everything",
			filter:      store.TaskFilter{},
			wantMissing: []string{"WHERE"},
			wantArgs:    []any{},
		},
		{
			name:         "status_only",
			filter:       store.TaskFilter{Status: &status},
			wantContains: []string{"WHERE status = $1"},
			wantArgs:     []any{status},
		},
		{
			name:   "keyword_matches_name_or_description",
			filter: store.TaskFilter{Keyword: &keyword},
			wantContains: []string{
				`WHERE (name ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\')`,
			},
			wantArgs: []any{"%login%"},
		},
		{
			name:   "keyword_metacharacters_match_literally",
			filter: store.TaskFilter{Keyword: &wildcardKeyword},
			wantContains: []string{
				`WHERE (name ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\')`,
			},
			wantArgs: []any{`%50\%\_done%`},
		},
		{
			name:     "keyword_backslash_is_escaped",
			filter:   store.TaskFilter{Keyword: &backslashKeyword},
			wantArgs: []any{`%C:\\temp%`},
		},
		{
			name:         "assignee_only",
			filter:       store.TaskFilter{AssignedUser: &assignee},
			wantContains: []string{"WHERE assigned_user = $1"},
			wantArgs:     []any{assignee},
		},
		{
			name: "all_predicates_are_conjunctive",
			filter: store.TaskFilter{
				Status:       &status,
				Keyword:      &keyword,
				AssignedUser: &assignee,
			},
			wantContains: []string{
				"status = $1",
				`(name ILIKE $2 ESCAPE '\' OR description ILIKE $2 ESCAPE '\')`,
				"assigned_user = $3",
				" AND ",
			},
			wantArgs: []any{status, "%login%", assignee},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildTaskListQuery(tt.filter)

			for _, fragment := range tt.wantContains {
				assert.Contains(t, query, fragment)
			}
			for _, fragment := range tt.wantMissing {
				assert.NotContains(t, query, fragment)
			}
			assert.Contains(t, query, "ORDER BY created_at DESC")
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestNewStoresUseComponentLoggers(t *testing.T) {
	// Constructors must tolerate a nil logger and still produce a usable
	// store; the real connection wiring is covered by integration tests.
	assert.NotNil(t, NewPostgresUserStore(nil, nil))
	assert.NotNil(t, NewPostgresTaskStore(nil, nil))
	assert.NotNil(t, NewPostgresTaskHistoryStore(nil, nil))
}
