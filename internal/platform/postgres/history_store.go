package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/tasktrail-api/internal/domain"
	"github.com/phrazzld/tasktrail-api/internal/platform/logger"
	"github.com/phrazzld/tasktrail-api/internal/store"
)

// PostgresTaskHistoryStore implements the store.TaskHistoryStore interface
// using a PostgreSQL database as the storage backend. The task_history
// table is append-only; this store exposes no update or delete.
type PostgresTaskHistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskHistoryStore creates a new PostgreSQL implementation of
// the TaskHistoryStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
func NewPostgresTaskHistoryStore(db store.DBTX, logger *slog.Logger) *PostgresTaskHistoryStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskHistoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_history_store")),
	}
}

// Ensure PostgresTaskHistoryStore implements store.TaskHistoryStore interface
var _ store.TaskHistoryStore = (*PostgresTaskHistoryStore)(nil)

// WithTx implements store.TaskHistoryStore.WithTx
func (s *PostgresTaskHistoryStore) WithTx(tx *sql.Tx) store.TaskHistoryStore {
	return &PostgresTaskHistoryStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskHistoryStore.Create
func (s *PostgresTaskHistoryStore) Create(ctx context.Context, entry *domain.TaskHistory) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO task_history (id, task_id, name, description, assigned_user, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.TaskID,
		entry.Name,
		entry.Description,
		entry.AssignedUser,
		entry.CreatedAt,
		entry.UpdatedAt,
		entry.DeletedAt,
	)

	if err != nil {
		log.Error("failed to append task history entry",
			slog.String("error", err.Error()),
			slog.String("task_id", entry.TaskID.String()))
		return MapError(err)
	}

	log.Debug("task history entry appended",
		slog.String("task_id", entry.TaskID.String()),
		slog.Bool("deletion", entry.DeletedAt != nil))
	return nil
}

// ListByTaskID implements store.TaskHistoryStore.ListByTaskID
func (s *PostgresTaskHistoryStore) ListByTaskID(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.TaskHistory, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, name, description, assigned_user, created_at, updated_at, deleted_at
		FROM task_history
		WHERE task_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to query task history",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []*domain.TaskHistory{}
	for rows.Next() {
		var entry domain.TaskHistory
		var assignedUser uuid.NullUUID
		var deletedAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.Name,
			&entry.Description,
			&assignedUser,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&deletedAt,
		)
		if err != nil {
			log.Error("failed to scan task history row",
				slog.String("error", err.Error()))
			return nil, err
		}

		if assignedUser.Valid {
			entry.AssignedUser = &assignedUser.UUID
		}
		if deletedAt.Valid {
			entry.DeletedAt = &deletedAt.Time
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed task history",
		slog.String("task_id", taskID.String()),
		slog.Int("count", len(entries)))
	return entries, nil
}
