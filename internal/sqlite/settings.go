package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wodplus/wodplus/internal/repository"
)

// SettingsRepository implements settings.Repository for SQLite
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetInt returns the stored value for key or repository.ErrNotFound
func (r *SettingsRepository) GetInt(ctx context.Context, key string) (int, error) {
	var value int
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}

// SetInt stores value under key, replacing any previous value
func (r *SettingsRepository) SetInt(ctx context.Context, key string, value int) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}
