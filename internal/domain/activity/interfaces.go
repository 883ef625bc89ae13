package activity

import (
	"context"
	"time"
)

// Repository provides persistence operations for activities.
type Repository interface {
	Get(ctx context.Context, id int64) (*Activity, error)
	List(ctx context.Context, opts ListOptions) ([]Activity, error)
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]Activity, error)
	Insert(ctx context.Context, a *Activity) error
	Update(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, id int64) error
	DeleteBefore(ctx context.Context, d Date) (int64, error)
	// Replace runs fn inside a single transaction so readers never observe a
	// partially replaced table.
	Replace(ctx context.Context, fn func(w Writer) error) error
}

// Writer is the bulk write surface available inside Repository.Replace.
type Writer interface {
	DeleteAll(ctx context.Context) error
	InsertBatch(ctx context.Context, activities []Activity) error
}

// Scheduler manages the pending reminder for an activity.
type Scheduler interface {
	Schedule(ctx context.Context, a Activity, leadMinutes int) error
	Cancel(ctx context.Context, activityID int64) error
}

// LeadTimeSource supplies the current reminder lead time.
type LeadTimeSource interface {
	LeadMinutes(ctx context.Context) (int, error)
}
