package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/observability"
)

// Scheduler computes fire times and registers tasks in the TaskStore.
type Scheduler struct {
	tasks  TaskStore
	waker  Waker
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLocation sets the zone activity wall-clock times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

// WithWaker registers a listener for task changes, normally the Runner.
func WithWaker(w Waker) Option {
	return func(s *Scheduler) { s.waker = w }
}

// NewScheduler creates a Scheduler backed by tasks.
func NewScheduler(tasks TaskStore, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Scheduler{
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FireTime returns when the reminder for a should fire. ok is false for an
// unscheduled activity.
func (s *Scheduler) FireTime(a activity.Activity, leadMinutes int) (time.Time, bool) {
	start, ok := a.StartsAt(s.loc)
	if !ok {
		return time.Time{}, false
	}
	return start.Add(-time.Duration(leadMinutes) * time.Minute), true
}

// Schedule registers the reminder for a, replacing any pending one. It does
// nothing when a has no time or the fire time is not in the future.
func (s *Scheduler) Schedule(ctx context.Context, a activity.Activity, leadMinutes int) error {
	fireAt, ok := s.FireTime(a, leadMinutes)
	if !ok {
		return nil
	}
	now := s.now()
	if !fireAt.After(now) {
		s.logger.Debug("reminder time already passed", "activity_id", a.ID, "fire_at", fireAt)
		return nil
	}

	task := Task{
		Key:        Key(a.ID),
		ActivityID: a.ID,
		FireAt:     fireAt,
		Token:      uuid.NewString(),
		CreatedAt:  now,
	}
	if err := s.tasks.Register(ctx, task); err != nil {
		return fmt.Errorf("registering reminder: %w", err)
	}
	observability.RecordReminderScheduled()
	s.logger.Info("reminder scheduled", "activity_id", a.ID, "fire_at", fireAt, "delay", fireAt.Sub(now))
	s.wake()
	return nil
}

// Cancel removes the pending reminder for an activity, if any.
func (s *Scheduler) Cancel(ctx context.Context, activityID int64) error {
	if err := s.tasks.Cancel(ctx, Key(activityID)); err != nil {
		return fmt.Errorf("cancelling reminder: %w", err)
	}
	observability.RecordReminderCancelled()
	s.wake()
	return nil
}

// RescheduleAll schedules every selected, timed, unfinished activity. Others
// are left alone.
func (s *Scheduler) RescheduleAll(ctx context.Context, activities []activity.Activity, leadMinutes int) error {
	for _, a := range activities {
		if !a.Selected || a.Time == nil || a.Completed {
			continue
		}
		if err := s.Schedule(ctx, a, leadMinutes); err != nil {
			return err
		}
	}
	return nil
}

// Pending lists registered tasks ordered by fire time.
func (s *Scheduler) Pending(ctx context.Context) ([]Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	return tasks, nil
}

func (s *Scheduler) wake() {
	if s.waker != nil {
		s.waker.Wake()
	}
}
