package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wodplus/wodplus/internal/reminder"
	"github.com/wodplus/wodplus/internal/repository"
)

const taskColumns = `key, activity_id, fire_at, token, created_at`

// TaskRepository implements reminder.TaskStore for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Register stores task, replacing any task with the same key
func (r *TaskRepository) Register(ctx context.Context, task reminder.Task) error {
	query := `INSERT OR REPLACE INTO reminder_tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		task.Key,
		task.ActivityID,
		toMillis(task.FireAt),
		task.Token,
		toMillis(task.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to register task: %w", err)
	}
	return nil
}

// Cancel removes the task under key. A missing task is not an error.
func (r *TaskRepository) Cancel(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminder_tasks WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to cancel task: %w", err)
	}
	return nil
}

// Get retrieves the task under key
func (r *TaskRepository) Get(ctx context.Context, key string) (*reminder.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM reminder_tasks WHERE key = ?`
	return r.getOne(ctx, query, key)
}

// List returns every pending task ordered by fire time
func (r *TaskRepository) List(ctx context.Context) ([]reminder.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM reminder_tasks ORDER BY fire_at, key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []reminder.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// NextDue returns the task with the earliest fire time
func (r *TaskRepository) NextDue(ctx context.Context) (*reminder.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM reminder_tasks ORDER BY fire_at, key LIMIT 1`
	return r.getOne(ctx, query)
}

// Claim deletes the task only if it still carries token
func (r *TaskRepository) Claim(ctx context.Context, key, token string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reminder_tasks WHERE key = ? AND token = ?`, key, token)
	if err != nil {
		return false, fmt.Errorf("failed to claim task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *TaskRepository) getOne(ctx context.Context, query string, args ...any) (*reminder.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func scanTask(row rowScanner) (*reminder.Task, error) {
	var task reminder.Task
	var fireAt, createdAt int64
	if err := row.Scan(&task.Key, &task.ActivityID, &fireAt, &task.Token, &createdAt); err != nil {
		return nil, err
	}
	task.FireAt = fromMillis(fireAt)
	task.CreatedAt = fromMillis(createdAt)
	return &task, nil
}
