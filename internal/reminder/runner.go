package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/observability"
	"github.com/wodplus/wodplus/internal/repository"
)

// ReminderTitle is the notification title for every reminder.
const ReminderTitle = "🏋️ Es hora de entrenar!"

const defaultRetryDelay = 30 * time.Second

// Runner fires due tasks. It sleeps until the earliest registered fire time
// and is woken early whenever the scheduler changes the task set.
type Runner struct {
	tasks      TaskStore
	activities ActivityReader
	notifier   Notifier
	logger     *slog.Logger
	now        func() time.Time
	retryDelay time.Duration
	wake       chan struct{}
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerClock overrides the time source.
func WithRunnerClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// WithRetryDelay sets how long to back off after a store error.
func WithRetryDelay(d time.Duration) RunnerOption {
	return func(r *Runner) { r.retryDelay = d }
}

// NewRunner creates a Runner.
func NewRunner(tasks TaskStore, activities ActivityReader, notifier Notifier, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{
		tasks:      tasks,
		activities: activities,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
		retryDelay: defaultRetryDelay,
		wake:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wake interrupts the current sleep so the next fire time is recomputed.
func (r *Runner) Wake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run fires tasks until ctx is done. Tasks that came due while the process
// was down fire immediately.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("reminder runner started")
	for {
		if _, err := r.FireDue(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.logger.Error("firing due reminders", "error", err)
		}

		var timerC <-chan time.Time
		wait, ok := r.nextWait(ctx)
		var timer *time.Timer
		if ok {
			timer = time.NewTimer(wait)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			r.logger.Info("reminder runner stopped")
			return nil
		case <-r.wake:
		case <-timerC:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

// FireDue fires every task whose time has come and returns how many it
// handled.
func (r *Runner) FireDue(ctx context.Context) (int, error) {
	fired := 0
	for {
		task, err := r.tasks.NextDue(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			return fired, nil
		}
		if err != nil {
			return fired, fmt.Errorf("loading next reminder: %w", err)
		}
		if task.FireAt.After(r.now()) {
			return fired, nil
		}
		claimed, err := r.tasks.Claim(ctx, task.Key, task.Token)
		if err != nil {
			return fired, fmt.Errorf("claiming reminder %s: %w", task.Key, err)
		}
		if !claimed {
			continue
		}
		r.fire(ctx, *task)
		fired++
	}
}

// fire re-reads the activity so the notification reflects its current state.
// It never retries.
func (r *Runner) fire(ctx context.Context, task Task) {
	a, err := r.activities.Get(ctx, task.ActivityID)
	if err != nil {
		if errors.Is(err, activity.ErrActivityNotFound) || errors.Is(err, repository.ErrNotFound) {
			observability.RecordReminderFired("missing")
			r.logger.Debug("reminder target gone", "activity_id", task.ActivityID)
			return
		}
		observability.RecordReminderFired("failed")
		r.logger.Warn("loading reminder target", "activity_id", task.ActivityID, "error", err)
		return
	}

	body := fmt.Sprintf("%s - %s", a.WeekdayLabel, a.SourceName)
	if err := r.notifier.Deliver(ctx, a.ID, ReminderTitle, body); err != nil {
		r.logger.Warn("reminder delivery failed", "activity_id", a.ID, "error", err)
	}
	observability.RecordReminderFired("delivered")
	r.logger.Info("reminder fired", "activity_id", a.ID, "source", a.SourceName)
}

func (r *Runner) nextWait(ctx context.Context) (time.Duration, bool) {
	task, err := r.tasks.NextDue(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, false
	}
	if err != nil {
		r.logger.Warn("loading next reminder", "error", err)
		return r.retryDelay, true
	}
	wait := task.FireAt.Sub(r.now())
	if wait < 0 {
		wait = 0
	}
	return wait, true
}
