package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/repository"
)

const activityColumns = `
	id, date, weekday_label, source_name, content, content_html, time,
	reminder_active, selected, completed, completed_at,
	calories_burned, distance_km, duration_minutes, notes
`

const insertActivityQuery = `
	INSERT INTO activities (
		date, weekday_label, source_name, content, content_html, time,
		reminder_active, selected, completed, completed_at,
		calories_burned, distance_km, duration_minutes, notes
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Get retrieves an activity by ID
func (r *ActivityRepository) Get(ctx context.Context, id int64) (*activity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// List returns activities matching opts ordered by date, then insertion
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities`

	var args []any
	var conditions []string
	if opts.From != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, opts.From.String())
	}
	if opts.To != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, opts.To.String())
	}
	if opts.SelectedOnly {
		conditions = append(conditions, "selected = 1")
	}
	if opts.SourceName != "" {
		conditions = append(conditions, "source_name = ?")
		args = append(args, opts.SourceName)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, id"

	return r.query(ctx, query, args...)
}

// ListCompletedBetween returns activities completed within [from, to]
func (r *ActivityRepository) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]activity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities
		WHERE completed = 1 AND completed_at >= ? AND completed_at <= ?
		ORDER BY completed_at, id`

	return r.query(ctx, query, toMillis(from), toMillis(to))
}

// Insert adds a single activity and sets its ID
func (r *ActivityRepository) Insert(ctx context.Context, a *activity.Activity) error {
	result, err := r.db.ExecContext(ctx, insertActivityQuery, activityArgs(*a)...)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read activity id: %w", err)
	}
	a.ID = id
	return nil
}

// Update overwrites every mutable field of an activity
func (r *ActivityRepository) Update(ctx context.Context, a *activity.Activity) error {
	query := `
		UPDATE activities
		SET date = ?, weekday_label = ?, source_name = ?, content = ?, content_html = ?,
		    time = ?, reminder_active = ?, selected = ?, completed = ?, completed_at = ?,
		    calories_burned = ?, distance_km = ?, duration_minutes = ?, notes = ?
		WHERE id = ?
	`

	args := append(activityArgs(*a), a.ID)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
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

// Delete removes an activity
func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
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

// DeleteBefore removes activities dated strictly before d
func (r *ActivityRepository) DeleteBefore(ctx context.Context, d activity.Date) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE date < ?`, d.String())
	if err != nil {
		return 0, fmt.Errorf("failed to prune activities: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// Replace runs fn inside one transaction. Nothing fn wrote is visible
// unless it returns nil.
func (r *ActivityRepository) Replace(ctx context.Context, fn func(w activity.Writer) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&activityWriter{ex: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ActivityRepository) query(ctx context.Context, query string, args ...any) ([]activity.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []activity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return activities, nil
}

type activityWriter struct {
	ex execer
}

func (w *activityWriter) DeleteAll(ctx context.Context) error {
	if _, err := w.ex.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return fmt.Errorf("failed to clear activities: %w", err)
	}
	return nil
}

// InsertBatch inserts activities in order and writes the new IDs back into
// the slice.
func (w *activityWriter) InsertBatch(ctx context.Context, activities []activity.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	stmt, err := w.ex.PrepareContext(ctx, insertActivityQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare activity insert: %w", err)
	}
	defer stmt.Close()

	for i := range activities {
		result, err := stmt.ExecContext(ctx, activityArgs(activities[i])...)
		if err != nil {
			return fmt.Errorf("failed to insert activity: %w", err)
		}
		if id, err := result.LastInsertId(); err == nil {
			activities[i].ID = id
		}
	}
	return nil
}

func activityArgs(a activity.Activity) []any {
	var timeOfDay sql.NullString
	if a.Time != nil {
		timeOfDay = sql.NullString{String: a.Time.String(), Valid: true}
	}
	var completedAt sql.NullInt64
	if a.CompletedAt != nil {
		completedAt = sql.NullInt64{Int64: toMillis(*a.CompletedAt), Valid: true}
	}
	return []any{
		a.Date.String(),
		a.WeekdayLabel,
		a.SourceName,
		a.Content,
		a.ContentHTML,
		timeOfDay,
		a.ReminderActive,
		a.Selected,
		a.Completed,
		completedAt,
		a.CaloriesBurned,
		a.DistanceKm,
		a.DurationMinutes,
		a.Notes,
	}
}

func scanActivity(row rowScanner) (*activity.Activity, error) {
	var a activity.Activity
	var date string
	var timeOfDay sql.NullString
	var completedAt sql.NullInt64
	var calories, duration sql.NullInt64
	var distance sql.NullFloat64
	var notes sql.NullString

	if err := row.Scan(
		&a.ID,
		&date,
		&a.WeekdayLabel,
		&a.SourceName,
		&a.Content,
		&a.ContentHTML,
		&timeOfDay,
		&a.ReminderActive,
		&a.Selected,
		&a.Completed,
		&completedAt,
		&calories,
		&distance,
		&duration,
		&notes,
	); err != nil {
		return nil, err
	}

	d, err := activity.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("activity %d: %w", a.ID, err)
	}
	a.Date = d

	if timeOfDay.Valid {
		t, err := activity.ParseTimeOfDay(timeOfDay.String)
		if err != nil {
			return nil, fmt.Errorf("activity %d: %w", a.ID, err)
		}
		a.Time = &t
	}
	if completedAt.Valid {
		t := fromMillis(completedAt.Int64)
		a.CompletedAt = &t
	}
	if calories.Valid {
		v := int(calories.Int64)
		a.CaloriesBurned = &v
	}
	if distance.Valid {
		v := distance.Float64
		a.DistanceKm = &v
	}
	if duration.Valid {
		v := int(duration.Int64)
		a.DurationMinutes = &v
	}
	if notes.Valid {
		v := notes.String
		a.Notes = &v
	}
	return &a, nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
