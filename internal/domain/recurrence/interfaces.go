package recurrence

import (
	"context"

	"github.com/wodplus/wodplus/internal/domain/activity"
)

// Repository provides persistence operations for recurrence configs.
// List returns configs in insertion order.
type Repository interface {
	Get(ctx context.Context, id int64) (*Config, error)
	GetByName(ctx context.Context, name string) (*Config, error)
	List(ctx context.Context) ([]Config, error)
	Create(ctx context.Context, cfg *Config) error
	Update(ctx context.Context, cfg *Config) error
	Delete(ctx context.Context, id int64) error
}

// ActivityLister reads the stored activities.
type ActivityLister interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
}
