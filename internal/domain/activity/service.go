package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wodplus/wodplus/internal/repository"
)

// Service handles per-activity operations and keeps reminders consistent with
// the selection state of each activity.
type Service struct {
	repo      Repository
	scheduler Scheduler
	leads     LeadTimeSource
	logger    *slog.Logger
	now       func() time.Time
	feed      *feed
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new activity service.
func NewService(repo Repository, scheduler Scheduler, leads LeadTimeSource, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		repo:      repo,
		scheduler: scheduler,
		leads:     leads,
		logger:    logger,
		now:       time.Now,
		feed:      newFeed(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get fetches an activity by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Activity, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("getting activity: %w", err)
	}
	return a, nil
}

// List returns activities matching opts.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Activity, error) {
	activities, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return activities, nil
}

// ListByDate returns the activities on a single date.
func (s *Service) ListByDate(ctx context.Context, d Date) ([]Activity, error) {
	return s.List(ctx, ListOptions{From: &d, To: &d})
}

// ListSelected returns the activities the user has chosen.
func (s *Service) ListSelected(ctx context.Context) ([]Activity, error) {
	return s.List(ctx, ListOptions{SelectedOnly: true})
}

// Select marks an activity as chosen at the given time and schedules or
// cancels its reminder in the same call. A nil time selects it unscheduled.
func (s *Service) Select(ctx context.Context, id int64, at *TimeOfDay) (*Activity, error) {
	if at != nil && !at.Valid() {
		return nil, ErrInvalidInput
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Selected = true
	a.Time = at
	a.ReminderActive = at != nil
	return s.save(ctx, a)
}

// Deselect clears the selection, time and reminder of an activity.
func (s *Service) Deselect(ctx context.Context, id int64) (*Activity, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Selected = false
	a.Time = nil
	a.ReminderActive = false
	return s.save(ctx, a)
}

// SetTime changes the time of a selected activity. A nil time unschedules it.
func (s *Service) SetTime(ctx context.Context, id int64, at *TimeOfDay) (*Activity, error) {
	if at != nil && !at.Valid() {
		return nil, ErrInvalidInput
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Selected {
		return nil, ErrNotSelected
	}
	a.Time = at
	a.ReminderActive = at != nil
	return s.save(ctx, a)
}

// Complete records a finished session. The pending reminder is dropped.
func (s *Service) Complete(ctx context.Context, id int64, details CompletionDetails) (*Activity, error) {
	if !details.valid() {
		return nil, ErrInvalidInput
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	completedAt := s.now()
	a.Completed = true
	a.CompletedAt = &completedAt
	a.CaloriesBurned = details.CaloriesBurned
	a.DistanceKm = details.DistanceKm
	a.DurationMinutes = details.DurationMinutes
	a.Notes = details.Notes
	a.ReminderActive = false
	return s.save(ctx, a)
}

// Next returns the nearest future selected activity, if any.
func (s *Service) Next(ctx context.Context) (*Activity, bool, error) {
	selected, err := s.ListSelected(ctx)
	if err != nil {
		return nil, false, err
	}
	next, ok := NextUpcoming(selected, s.now())
	return next, ok, nil
}

// PruneBefore deletes activities dated before d.
func (s *Service) PruneBefore(ctx context.Context, d Date) (int64, error) {
	n, err := s.repo.DeleteBefore(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("pruning activities: %w", err)
	}
	if n > 0 {
		s.NotifyChanged(ctx)
	}
	return n, nil
}

func (s *Service) save(ctx context.Context, a *Activity) (*Activity, error) {
	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("updating activity: %w", err)
	}
	if err := s.syncReminder(ctx, *a); err != nil {
		return nil, err
	}
	s.NotifyChanged(ctx)
	return a, nil
}

func (s *Service) syncReminder(ctx context.Context, a Activity) error {
	if s.scheduler == nil {
		return nil
	}
	if !a.Selected || a.Time == nil || a.Completed {
		if err := s.scheduler.Cancel(ctx, a.ID); err != nil {
			return fmt.Errorf("cancelling reminder: %w", err)
		}
		return nil
	}
	lead, err := s.leads.LeadMinutes(ctx)
	if err != nil {
		return fmt.Errorf("reading reminder lead time: %w", err)
	}
	// A new fire time that is already past must not leave the old task behind.
	if err := s.scheduler.Cancel(ctx, a.ID); err != nil {
		return fmt.Errorf("cancelling reminder: %w", err)
	}
	if err := s.scheduler.Schedule(ctx, a, lead); err != nil {
		return fmt.Errorf("scheduling reminder: %w", err)
	}
	s.logger.Debug("reminder synced", "activity_id", a.ID, "time", a.Time.String(), "lead_minutes", lead)
	return nil
}
