package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/repository"
)

const recurrenceColumns = `id, name, days, preferred_time, enabled, built_in`

// RecurrenceRepository implements recurrence.Repository for SQLite
type RecurrenceRepository struct {
	db *DB
}

// NewRecurrenceRepository creates a new RecurrenceRepository
func NewRecurrenceRepository(db *DB) *RecurrenceRepository {
	return &RecurrenceRepository{db: db}
}

// Get retrieves a config by ID
func (r *RecurrenceRepository) Get(ctx context.Context, id int64) (*recurrence.Config, error) {
	query := `SELECT ` + recurrenceColumns + ` FROM recurrence_configs WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// GetByName retrieves a config by its exact name
func (r *RecurrenceRepository) GetByName(ctx context.Context, name string) (*recurrence.Config, error) {
	query := `SELECT ` + recurrenceColumns + ` FROM recurrence_configs WHERE name = ?`
	return r.getOne(ctx, query, name)
}

// List returns every config in insertion order
func (r *RecurrenceRepository) List(ctx context.Context) ([]recurrence.Config, error) {
	query := `SELECT ` + recurrenceColumns + ` FROM recurrence_configs ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurrences: %w", err)
	}
	defer rows.Close()

	var configs []recurrence.Config
	for rows.Next() {
		cfg, err := scanRecurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurrence: %w", err)
		}
		configs = append(configs, *cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurrence rows: %w", err)
	}

	return configs, nil
}

// Create inserts a config and sets its ID
func (r *RecurrenceRepository) Create(ctx context.Context, cfg *recurrence.Config) error {
	query := `
		INSERT INTO recurrence_configs (name, days, preferred_time, enabled, built_in)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		cfg.Name,
		daysMask(cfg.Days),
		cfg.PreferredTime.String(),
		cfg.Enabled,
		cfg.BuiltIn,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create recurrence: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read recurrence id: %w", err)
	}
	cfg.ID = id
	return nil
}

// Update overwrites a config
func (r *RecurrenceRepository) Update(ctx context.Context, cfg *recurrence.Config) error {
	query := `
		UPDATE recurrence_configs
		SET name = ?, days = ?, preferred_time = ?, enabled = ?, built_in = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		cfg.Name,
		daysMask(cfg.Days),
		cfg.PreferredTime.String(),
		cfg.Enabled,
		cfg.BuiltIn,
		cfg.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update recurrence: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a config
func (r *RecurrenceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recurrence_configs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recurrence: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RecurrenceRepository) getOne(ctx context.Context, query string, arg any) (*recurrence.Config, error) {
	cfg, err := scanRecurrence(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurrence: %w", err)
	}
	return cfg, nil
}

func scanRecurrence(row rowScanner) (*recurrence.Config, error) {
	var cfg recurrence.Config
	var mask int64
	var preferred string
	if err := row.Scan(&cfg.ID, &cfg.Name, &mask, &preferred, &cfg.Enabled, &cfg.BuiltIn); err != nil {
		return nil, err
	}
	t, err := activity.ParseTimeOfDay(preferred)
	if err != nil {
		return nil, fmt.Errorf("recurrence %d: %w", cfg.ID, err)
	}
	cfg.PreferredTime = t
	cfg.Days = daysFromMask(mask)
	return &cfg, nil
}

// daysMask packs the flags with bit n set for time.Weekday(n).
func daysMask(days recurrence.Weekdays) int64 {
	var mask int64
	for i, on := range days {
		if on {
			mask |= 1 << i
		}
	}
	return mask
}

func daysFromMask(mask int64) recurrence.Weekdays {
	var days recurrence.Weekdays
	for i := range days {
		days[i] = mask&(1<<i) != 0
	}
	return days
}
