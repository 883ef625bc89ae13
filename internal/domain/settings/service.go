package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/repository"
)

const (
	keyLeadMinutes     = "notification_minutes_before"
	keyPreferredHour   = "preferred_hour"
	keyPreferredMinute = "preferred_minute"

	maxLeadMinutes = 24 * 60
)

// Defaults apply when a setting has never been stored.
type Defaults struct {
	LeadMinutes   int
	PreferredTime activity.TimeOfDay
}

// DefaultValues mirrors the out-of-the-box preferences.
func DefaultValues() Defaults {
	return Defaults{
		LeadMinutes:   60,
		PreferredTime: activity.TimeOfDay{Hour: 18, Minute: 0},
	}
}

// Settings is a snapshot of the user preferences.
type Settings struct {
	LeadMinutes   int                `json:"reminder_lead_minutes"`
	PreferredTime activity.TimeOfDay `json:"preferred_time"`
}

// Service reads and writes user preferences.
type Service struct {
	repo        Repository
	activities  ActivityLister
	rescheduler Rescheduler
	defaults    Defaults
	logger      *slog.Logger
}

// NewService creates a new settings service.
func NewService(repo Repository, activities ActivityLister, rescheduler Rescheduler, defaults Defaults, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:        repo,
		activities:  activities,
		rescheduler: rescheduler,
		defaults:    defaults,
		logger:      logger,
	}
}

// LeadMinutes returns how long before an activity its reminder fires.
func (s *Service) LeadMinutes(ctx context.Context) (int, error) {
	return s.getInt(ctx, keyLeadMinutes, s.defaults.LeadMinutes)
}

// SetLeadMinutes stores a new lead time and re-registers every pending
// reminder with it.
func (s *Service) SetLeadMinutes(ctx context.Context, minutes int) error {
	if minutes < 0 || minutes > maxLeadMinutes {
		return ErrInvalidInput
	}
	if err := s.repo.SetInt(ctx, keyLeadMinutes, minutes); err != nil {
		return fmt.Errorf("storing lead minutes: %w", err)
	}
	if s.rescheduler == nil {
		return nil
	}
	selected, err := s.activities.List(ctx, activity.ListOptions{SelectedOnly: true})
	if err != nil {
		return fmt.Errorf("listing selected activities: %w", err)
	}
	if err := s.rescheduler.RescheduleAll(ctx, selected, minutes); err != nil {
		return fmt.Errorf("rescheduling reminders: %w", err)
	}
	s.logger.Info("reminder lead time changed", "lead_minutes", minutes, "selected", len(selected))
	return nil
}

// PreferredTime returns the default time suggested for new selections.
func (s *Service) PreferredTime(ctx context.Context) (activity.TimeOfDay, error) {
	hour, err := s.getInt(ctx, keyPreferredHour, s.defaults.PreferredTime.Hour)
	if err != nil {
		return activity.TimeOfDay{}, err
	}
	minute, err := s.getInt(ctx, keyPreferredMinute, s.defaults.PreferredTime.Minute)
	if err != nil {
		return activity.TimeOfDay{}, err
	}
	return activity.TimeOfDay{Hour: hour, Minute: minute}, nil
}

// SetPreferredTime stores the default time suggested for new selections.
func (s *Service) SetPreferredTime(ctx context.Context, t activity.TimeOfDay) error {
	if !t.Valid() {
		return ErrInvalidInput
	}
	if err := s.repo.SetInt(ctx, keyPreferredHour, t.Hour); err != nil {
		return fmt.Errorf("storing preferred hour: %w", err)
	}
	if err := s.repo.SetInt(ctx, keyPreferredMinute, t.Minute); err != nil {
		return fmt.Errorf("storing preferred minute: %w", err)
	}
	return nil
}

// Get returns all preferences.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	lead, err := s.LeadMinutes(ctx)
	if err != nil {
		return Settings{}, err
	}
	preferred, err := s.PreferredTime(ctx)
	if err != nil {
		return Settings{}, err
	}
	return Settings{LeadMinutes: lead, PreferredTime: preferred}, nil
}

func (s *Service) getInt(ctx context.Context, key string, fallback int) (int, error) {
	v, err := s.repo.GetInt(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return v, nil
}
