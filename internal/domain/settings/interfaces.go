package settings

import (
	"context"

	"github.com/wodplus/wodplus/internal/domain/activity"
)

// Repository stores integer settings by key.
type Repository interface {
	GetInt(ctx context.Context, key string) (int, error)
	SetInt(ctx context.Context, key string, value int) error
}

// ActivityLister reads the stored activities.
type ActivityLister interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
}

// Rescheduler re-registers reminders for a set of activities.
type Rescheduler interface {
	RescheduleAll(ctx context.Context, activities []activity.Activity, leadMinutes int) error
}
