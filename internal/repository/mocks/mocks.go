// Package mocks provides testify mocks for the store and scheduler interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/reminder"
)

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Get(ctx context.Context, id int64) (*activity.Activity, error) {
	args := m.Called(ctx, id)
	if a, ok := args.Get(0).(*activity.Activity); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]activity.Activity, error) {
	args := m.Called(ctx, from, to)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Insert(ctx context.Context, a *activity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *ActivityRepository) Update(ctx context.Context, a *activity.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *ActivityRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ActivityRepository) DeleteBefore(ctx context.Context, d activity.Date) (int64, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(int64), args.Error(1)
}

// Replace hands the configured Writer to fn when one is set with Return
// and otherwise just reports the configured error.
func (m *ActivityRepository) Replace(ctx context.Context, fn func(w activity.Writer) error) error {
	args := m.Called(ctx, fn)
	if w, ok := args.Get(0).(activity.Writer); ok {
		if err := fn(w); err != nil {
			return err
		}
	}
	return args.Error(1)
}

// ActivityWriter is a mock for activity.Writer.
type ActivityWriter struct {
	mock.Mock
}

func (m *ActivityWriter) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ActivityWriter) InsertBatch(ctx context.Context, activities []activity.Activity) error {
	args := m.Called(ctx, activities)
	return args.Error(0)
}

// RecurrenceRepository is a mock for recurrence.Repository.
type RecurrenceRepository struct {
	mock.Mock
}

func (m *RecurrenceRepository) Get(ctx context.Context, id int64) (*recurrence.Config, error) {
	args := m.Called(ctx, id)
	if cfg, ok := args.Get(0).(*recurrence.Config); ok {
		return cfg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecurrenceRepository) GetByName(ctx context.Context, name string) (*recurrence.Config, error) {
	args := m.Called(ctx, name)
	if cfg, ok := args.Get(0).(*recurrence.Config); ok {
		return cfg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecurrenceRepository) List(ctx context.Context) ([]recurrence.Config, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]recurrence.Config); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecurrenceRepository) Create(ctx context.Context, cfg *recurrence.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *RecurrenceRepository) Update(ctx context.Context, cfg *recurrence.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *RecurrenceRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SettingsRepository is a mock for settings.Repository.
type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) GetInt(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *SettingsRepository) SetInt(ctx context.Context, key string, value int) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Scheduler is a mock for activity.Scheduler.
type Scheduler struct {
	mock.Mock
}

func (m *Scheduler) Schedule(ctx context.Context, a activity.Activity, leadMinutes int) error {
	args := m.Called(ctx, a, leadMinutes)
	return args.Error(0)
}

func (m *Scheduler) Cancel(ctx context.Context, activityID int64) error {
	args := m.Called(ctx, activityID)
	return args.Error(0)
}

// Rescheduler is a mock for settings.Rescheduler.
type Rescheduler struct {
	mock.Mock
}

func (m *Rescheduler) RescheduleAll(ctx context.Context, activities []activity.Activity, leadMinutes int) error {
	args := m.Called(ctx, activities, leadMinutes)
	return args.Error(0)
}

// LeadTimeSource is a mock for activity.LeadTimeSource.
type LeadTimeSource struct {
	mock.Mock
}

func (m *LeadTimeSource) LeadMinutes(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Notifier is a mock for reminder.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Deliver(ctx context.Context, id int64, title, body string) error {
	args := m.Called(ctx, id, title, body)
	return args.Error(0)
}

var _ reminder.Notifier = (*Notifier)(nil)
