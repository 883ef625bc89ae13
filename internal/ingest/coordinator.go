// Package ingest replaces the stored activity set from a scrape result.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/observability"
	"github.com/wodplus/wodplus/internal/scrape"
)

var (
	// ErrIngestFailed wraps any store failure during ingestion.
	ErrIngestFailed = errors.New("could not update workouts")
	// ErrFetchFailed wraps a failure of the scrape fetch.
	ErrFetchFailed = errors.New("could not fetch workouts")
)

// Store is the activity persistence used by ingestion.
type Store interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
	Replace(ctx context.Context, fn func(w activity.Writer) error) error
}

// ConfigLister reads every recurrence config.
type ConfigLister interface {
	List(ctx context.Context) ([]recurrence.Config, error)
}

// Fetcher returns the raw scraper output.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// ChangeNotifier is told after the activity set was replaced.
type ChangeNotifier interface {
	NotifyChanged(ctx context.Context)
}

// Result describes one ingestion run.
type Result struct {
	Scraped      int  `json:"scraped"`
	Materialized int  `json:"materialized"`
	Dropped      int  `json:"dropped"`
	Fallback     bool `json:"fallback"`
}

// Total is the number of activities saved.
func (r Result) Total() int {
	return r.Scraped + r.Materialized
}

// Coordinator runs parse, materialize and replace as one serialized step.
type Coordinator struct {
	mu      sync.Mutex
	store   Store
	configs ConfigLister
	fetcher Fetcher
	changes ChangeNotifier
	parser  *scrape.Parser
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithFetcher sets the collaborator used by Refresh.
func WithFetcher(f Fetcher) Option {
	return func(c *Coordinator) { c.fetcher = f }
}

// WithChangeNotifier sets who is told about a replaced activity set.
func WithChangeNotifier(n ChangeNotifier) Option {
	return func(c *Coordinator) { c.changes = n }
}

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(store Store, configs ConfigLister, logger *slog.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Coordinator{
		store:   store,
		configs: configs,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = scrape.NewParser(logger, func() time.Time { return c.now() })
	return c
}

// Ingest replaces the stored activities from raw and returns how many were
// saved. Parse problems fall back to sample data and never fail the call.
func (c *Coordinator) Ingest(ctx context.Context, raw string) (int, error) {
	res, err := c.Run(ctx, raw)
	if err != nil {
		return 0, err
	}
	return res.Total(), nil
}

// Refresh fetches the scraper output and ingests it.
func (c *Coordinator) Refresh(ctx context.Context) (*Result, error) {
	if c.fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", ErrFetchFailed)
	}
	raw, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.logger.Error("scrape fetch failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return c.Run(ctx, raw)
}

// Run is Ingest with a detailed result.
//
// Every activity row is deleted and re-inserted, so selections, times and
// completions on the previous rows do not survive. A payload that yields no
// workouts leaves the store untouched.
func (c *Coordinator) Run(ctx context.Context, raw string) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parsed := c.parser.Parse(raw)
	res := &Result{Dropped: parsed.Dropped}
	scraped := parsed.Activities
	if !parsed.OK {
		res.Fallback = true
		scraped = scrape.SampleActivities(activity.DateOf(c.now()))
		c.logger.Warn("scrape result unusable, loading sample workouts", "count", len(scraped))
	}

	if len(scraped) == 0 {
		observability.RecordIngest(observability.OutcomeEmpty, 0, 0, res.Dropped, time.Time{})
		c.logger.Warn("scrape contained no workouts, keeping stored activities", "dropped", res.Dropped)
		return res, nil
	}

	configs, err := c.configs.List(ctx)
	if err != nil {
		return nil, c.fail(fmt.Errorf("listing recurrences: %w", err))
	}
	custom := recurrence.Materialize(scraped, configs)

	c.warnDiscardedSelections(ctx)

	err = c.store.Replace(ctx, func(w activity.Writer) error {
		if err := w.DeleteAll(ctx); err != nil {
			return err
		}
		if err := w.InsertBatch(ctx, scraped); err != nil {
			return err
		}
		return w.InsertBatch(ctx, custom)
	})
	if err != nil {
		return nil, c.fail(fmt.Errorf("replacing activities: %w", err))
	}

	res.Scraped = len(scraped)
	res.Materialized = len(custom)

	outcome := observability.OutcomeScraped
	if res.Fallback {
		outcome = observability.OutcomeFallback
	}
	observability.RecordIngest(outcome, res.Scraped, res.Materialized, res.Dropped, c.now())
	c.logger.Info("activities ingested",
		"scraped", res.Scraped,
		"materialized", res.Materialized,
		"dropped", res.Dropped,
		"fallback", res.Fallback,
	)

	if c.changes != nil {
		c.changes.NotifyChanged(ctx)
	}
	return res, nil
}

func (c *Coordinator) fail(err error) error {
	observability.RecordIngest(observability.OutcomeFailed, 0, 0, 0, time.Time{})
	c.logger.Error("ingestion failed", "error", err)
	return fmt.Errorf("%w: %v", ErrIngestFailed, err)
}

// warnDiscardedSelections logs how much user state the replace is about to drop.
func (c *Coordinator) warnDiscardedSelections(ctx context.Context) {
	selected, err := c.store.List(ctx, activity.ListOptions{SelectedOnly: true})
	if err != nil {
		c.logger.Debug("could not count selected activities before ingest", "error", err)
		return
	}
	if len(selected) > 0 {
		c.logger.Warn("ingestion discards existing selections", "selected", len(selected))
	}
}
