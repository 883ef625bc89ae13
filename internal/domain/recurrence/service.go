package recurrence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/repository"
)

// Service handles recurrence config operations and the selectable view that
// depends on them.
type Service struct {
	repo       Repository
	activities ActivityLister
	logger     *slog.Logger
}

// NewService creates a new recurrence service.
func NewService(repo Repository, activities ActivityLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, activities: activities, logger: logger}
}

// EnsureBuiltIns seeds any missing built-in config. Existing ones are left
// untouched so user edits to days and time survive restarts.
func (s *Service) EnsureBuiltIns(ctx context.Context) error {
	for _, cfg := range BuiltIns() {
		_, err := s.repo.GetByName(ctx, cfg.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("looking up built-in %q: %w", cfg.Name, err)
		}
		if err := s.repo.Create(ctx, &cfg); err != nil {
			return fmt.Errorf("seeding built-in %q: %w", cfg.Name, err)
		}
		s.logger.Info("seeded built-in recurrence", "name", cfg.Name)
	}
	return nil
}

// List returns all configs in insertion order.
func (s *Service) List(ctx context.Context) ([]Config, error) {
	configs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recurrences: %w", err)
	}
	return configs, nil
}

// ListEnabled returns only enabled configs.
func (s *Service) ListEnabled(ctx context.Context) ([]Config, error) {
	configs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	enabled := configs[:0]
	for _, cfg := range configs {
		if cfg.Enabled {
			enabled = append(enabled, cfg)
		}
	}
	return enabled, nil
}

// Get fetches a config by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Config, error) {
	cfg, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("getting recurrence: %w", err)
	}
	return cfg, nil
}

// Save creates the config when ID is zero and updates it otherwise. Built-in
// configs keep their name and built-in flag.
func (s *Service) Save(ctx context.Context, cfg Config) (*Config, error) {
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Name == "" || !cfg.PreferredTime.Valid() {
		return nil, ErrInvalidInput
	}

	if cfg.ID == 0 {
		cfg.BuiltIn = false
		if err := s.ensureNameFree(ctx, cfg.Name, 0); err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, &cfg); err != nil {
			return nil, s.mapWriteError(err, "creating recurrence")
		}
		return &cfg, nil
	}

	existing, err := s.Get(ctx, cfg.ID)
	if err != nil {
		return nil, err
	}
	if existing.BuiltIn && cfg.Name != existing.Name {
		return nil, ErrBuiltInProtected
	}
	cfg.BuiltIn = existing.BuiltIn
	if cfg.Name != existing.Name {
		if err := s.ensureNameFree(ctx, cfg.Name, cfg.ID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, &cfg); err != nil {
		return nil, s.mapWriteError(err, "updating recurrence")
	}
	return &cfg, nil
}

// Delete removes a custom config.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.BuiltIn {
		return ErrBuiltInProtected
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapWriteError(err, "deleting recurrence")
	}
	return nil
}

// ToggleEnabled flips the enabled flag and returns the updated config.
func (s *Service) ToggleEnabled(ctx context.Context, id int64) (*Config, error) {
	cfg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg.Enabled = !cfg.Enabled
	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, s.mapWriteError(err, "toggling recurrence")
	}
	return cfg, nil
}

// PreferredTime returns the suggested time for the named source.
func (s *Service) PreferredTime(ctx context.Context, name string) (activity.TimeOfDay, bool, error) {
	cfg, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return activity.TimeOfDay{}, false, nil
		}
		return activity.TimeOfDay{}, false, fmt.Errorf("getting recurrence %q: %w", name, err)
	}
	return cfg.PreferredTime, true, nil
}

// Selectable returns the stored activities enabled by the current configs.
func (s *Service) Selectable(ctx context.Context) ([]activity.Activity, error) {
	all, err := s.activities.List(ctx, activity.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	configs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterSelectable(all, configs), nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	other, err := s.repo.GetByName(ctx, name)
	if err == nil && other.ID != selfID {
		return ErrDuplicateName
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("checking recurrence name: %w", err)
	}
	return nil
}

func (s *Service) mapWriteError(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrConfigNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrDuplicateName
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
