// Package reminder schedules and fires one durable reminder per activity.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/wodplus/wodplus/internal/domain/activity"
)

// Task is a pending one-shot reminder. Key is unique per activity; Token
// identifies one registration so a replaced task is never fired.
type Task struct {
	Key        string    `json:"key"`
	ActivityID int64     `json:"activity_id"`
	FireAt     time.Time `json:"fire_at"`
	Token      string    `json:"token"`
	CreatedAt  time.Time `json:"created_at"`
}

// Key returns the unique task key for an activity.
func Key(activityID int64) string {
	return fmt.Sprintf("wod_reminder_%d", activityID)
}

// TaskStore is the durable delayed-task facility. Register replaces any task
// stored under the same key.
type TaskStore interface {
	Register(ctx context.Context, task Task) error
	Cancel(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*Task, error)
	List(ctx context.Context) ([]Task, error)
	// NextDue returns the task with the earliest FireAt, or repository.ErrNotFound.
	NextDue(ctx context.Context) (*Task, error)
	// Claim removes the task if it still carries token and reports whether it did.
	Claim(ctx context.Context, key, token string) (bool, error)
}

// ActivityReader loads the current state of an activity at fire time.
type ActivityReader interface {
	Get(ctx context.Context, id int64) (*activity.Activity, error)
}

// Notifier delivers a reminder to the user. Implementations swallow
// platform refusals; a returned error is only logged.
type Notifier interface {
	Deliver(ctx context.Context, id int64, title, body string) error
}

// Waker is told when the set of pending tasks changes.
type Waker interface {
	Wake()
}
