// Package mcp exposes the wodplus services as MCP tools.
package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/domain/settings"
	"github.com/wodplus/wodplus/internal/ingest"
	"github.com/wodplus/wodplus/internal/reminder"
)

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
	ListSelected(ctx context.Context) ([]activity.Activity, error)
	Select(ctx context.Context, id int64, at *activity.TimeOfDay) (*activity.Activity, error)
	Deselect(ctx context.Context, id int64) (*activity.Activity, error)
	SetTime(ctx context.Context, id int64, at *activity.TimeOfDay) (*activity.Activity, error)
	Complete(ctx context.Context, id int64, details activity.CompletionDetails) (*activity.Activity, error)
	Get(ctx context.Context, id int64) (*activity.Activity, error)
	Next(ctx context.Context) (*activity.Activity, bool, error)
	Stats(ctx context.Context, period activity.Period) (*activity.Stats, error)
}

// RecurrenceService defines recurrence operations needed by MCP.
type RecurrenceService interface {
	List(ctx context.Context) ([]recurrence.Config, error)
	Save(ctx context.Context, cfg recurrence.Config) (*recurrence.Config, error)
	Delete(ctx context.Context, id int64) error
	ToggleEnabled(ctx context.Context, id int64) (*recurrence.Config, error)
	PreferredTime(ctx context.Context, name string) (activity.TimeOfDay, bool, error)
	Selectable(ctx context.Context) ([]activity.Activity, error)
}

// SettingsService defines preference operations needed by MCP.
type SettingsService interface {
	Get(ctx context.Context) (settings.Settings, error)
	SetLeadMinutes(ctx context.Context, minutes int) error
	SetPreferredTime(ctx context.Context, t activity.TimeOfDay) error
	PreferredTime(ctx context.Context) (activity.TimeOfDay, error)
}

// Ingestor runs ingestion from raw text or from the configured fetcher.
type Ingestor interface {
	Run(ctx context.Context, raw string) (*ingest.Result, error)
	Refresh(ctx context.Context) (*ingest.Result, error)
}

// ReminderLister lists pending reminders.
type ReminderLister interface {
	Pending(ctx context.Context) ([]reminder.Task, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Activities  ActivityService
	Recurrences RecurrenceService
	Settings    SettingsService
	Ingest      Ingestor
	Reminders   ReminderLister
}

// Config contains server configuration.
type Config struct {
	Services      Services
	TransportMode string // "stdio" or "http"
	Version       string
	Location      *time.Location // zone activity times are interpreted in
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "wodplus",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	registerTools(server, cfg.Services, loc)

	return server
}
