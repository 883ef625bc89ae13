package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wodplus/wodplus/internal/config"
	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/domain/settings"
	"github.com/wodplus/wodplus/internal/fetch"
	"github.com/wodplus/wodplus/internal/ingest"
	"github.com/wodplus/wodplus/internal/mcp"
	"github.com/wodplus/wodplus/internal/notify"
	"github.com/wodplus/wodplus/internal/reminder"
	"github.com/wodplus/wodplus/internal/sqlite"
)

// app holds the wired services shared by every command.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	loc    *time.Location
	db     *sqlite.DB

	activities  *activity.Service
	recurrences *recurrence.Service
	settings    *settings.Service
	scheduler   *reminder.Scheduler
	runner      *reminder.Runner
	ingest      *ingest.Coordinator
}

type appOption func(*appOptions)

type appOptions struct {
	fetcher ingest.Fetcher
	now     func() time.Time
}

// withFetcher replaces the configured scraper command.
func withFetcher(f ingest.Fetcher) appOption {
	return func(o *appOptions) { o.fetcher = f }
}

// withClock replaces the wall clock. Readings are moved into the reminder
// time zone before any service sees them.
func withClock(now func() time.Time) appOption {
	return func(o *appOptions) { o.now = now }
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...appOption) (*app, error) {
	o := appOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	now := func() time.Time { return o.now().In(loc) }
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	activityRepo := sqlite.NewActivityRepository(db)
	recurrenceRepo := sqlite.NewRecurrenceRepository(db)
	settingsRepo := sqlite.NewSettingsRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)

	var notifier reminder.Notifier = notify.NewLogNotifier(logger)
	if len(cfg.Notify.Command) > 0 {
		notifier = notify.NewCommandNotifier(cfg.Notify.Command, logger)
	}

	fetcher := o.fetcher
	if fetcher == nil && len(cfg.Fetch.Command) > 0 {
		fetcher = fetch.NewCommandFetcher(cfg.Fetch.Command, cfg.Fetch.Timeout, logger)
	}

	runner := reminder.NewRunner(taskRepo, activityRepo, notifier, logger)
	scheduler := reminder.NewScheduler(taskRepo, logger, reminder.WithLocation(loc), reminder.WithWaker(runner))

	defaults := settings.DefaultValues()
	defaults.LeadMinutes = cfg.Reminder.LeadMinutes
	settingsSvc := settings.NewService(settingsRepo, activityRepo, scheduler, defaults, logger)
	activitySvc := activity.NewService(activityRepo, scheduler, settingsSvc, logger,
		activity.WithClock(now))
	recurrenceSvc := recurrence.NewService(recurrenceRepo, activitySvc, logger)

	ingestOpts := []ingest.Option{ingest.WithChangeNotifier(activitySvc), ingest.WithClock(now)}
	if fetcher != nil {
		ingestOpts = append(ingestOpts, ingest.WithFetcher(fetcher))
	}
	coordinator := ingest.NewCoordinator(activityRepo, recurrenceSvc, logger, ingestOpts...)

	if err := recurrenceSvc.EnsureBuiltIns(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		loc:         loc,
		db:          db,
		activities:  activitySvc,
		recurrences: recurrenceSvc,
		settings:    settingsSvc,
		scheduler:   scheduler,
		runner:      runner,
		ingest:      coordinator,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) mcpConfig() mcp.Config {
	return mcp.Config{
		Services: mcp.Services{
			Activities:  a.activities,
			Recurrences: a.recurrences,
			Settings:    a.settings,
			Ingest:      a.ingest,
			Reminders:   a.scheduler,
		},
		TransportMode: a.cfg.Transport.Mode,
		Version:       version,
		Location:      a.loc,
		Logger:        a.logger,
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
