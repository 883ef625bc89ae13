package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
)

type tools struct {
	svc Services
	loc *time.Location
}

func registerTools(server *sdkmcp.Server, svc Services, loc *time.Location) {
	t := &tools{svc: svc, loc: loc}

	// Ingestion
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "refresh_wods",
		Description: "Run the configured scraper and replace all stored workouts with its result. Selections, times and completions are discarded.",
	}, t.refreshWods)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ingest_scrape",
		Description: "Replace all stored workouts with the given scraper output. Output without markers loads a week of sample workouts.",
	}, t.ingestScrape)

	// Browsing
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activities",
		Description: "List stored activities grouped by day, optionally limited to a date range or source.",
	}, t.listActivities)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_selectable",
		Description: "List activities whose source has an enabled recurrence scheduled on that weekday.",
	}, t.listSelectable)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_selected",
		Description: "List the activities the user has chosen.",
	}, t.listSelected)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "next_activity",
		Description: "Return the nearest upcoming selected, scheduled and unfinished activity.",
	}, t.nextActivity)

	// Selection
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_activity",
		Description: "Choose an activity at a time and schedule its reminder.",
	}, t.selectActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "deselect_activity",
		Description: "Unchoose an activity, clearing its time and cancelling its reminder.",
	}, t.deselectActivity)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_activity_time",
		Description: "Change the time of a selected activity and reschedule its reminder.",
	}, t.setActivityTime)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "complete_activity",
		Description: "Mark an activity as done with optional metrics. Its reminder is cancelled.",
	}, t.completeActivity)

	// Recurrences
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_recurrences",
		Description: "List weekly recurrence configs, built-ins first.",
	}, t.listRecurrences)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_recurrence",
		Description: "Create a recurrence config, or update one when id is given. Built-in configs keep their name. New configs apply from the next ingest.",
	}, t.saveRecurrence)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_recurrence",
		Description: "Delete a custom recurrence config.",
	}, t.deleteRecurrence)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_recurrence",
		Description: "Enable or disable a recurrence config.",
	}, t.toggleRecurrence)

	// Settings, reminders and stats
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_settings",
		Description: "Return the reminder lead time and the default preferred time.",
	}, t.getSettings)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_reminder_lead",
		Description: "Change how many minutes before an activity its reminder fires. Pending reminders are rescheduled.",
	}, t.setReminderLead)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_preferred_time",
		Description: "Change the default time used when selecting an activity without one.",
	}, t.setPreferredTime)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_reminders",
		Description: "List pending reminders ordered by fire time.",
	}, t.listReminders)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_stats",
		Description: "Summarize completed workouts over the last week, month or year.",
	}, t.getStats)
}

func (t *tools) refreshWods(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, IngestResult, error) {
	res, err := t.svc.Ingest.Refresh(ctx)
	if err != nil {
		return nil, IngestResult{}, toolError(err)
	}
	return nil, toIngestResult(res), nil
}

func (t *tools) ingestScrape(ctx context.Context, _ *sdkmcp.CallToolRequest, in IngestScrapeParams) (*sdkmcp.CallToolResult, IngestResult, error) {
	res, err := t.svc.Ingest.Run(ctx, in.Raw)
	if err != nil {
		return nil, IngestResult{}, toolError(err)
	}
	return nil, toIngestResult(res), nil
}

func (t *tools) listActivities(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListActivitiesParams) (*sdkmcp.CallToolResult, ActivityListResult, error) {
	from, err := parseOptionalDate("from", in.From)
	if err != nil {
		return nil, ActivityListResult{}, err
	}
	to, err := parseOptionalDate("to", in.To)
	if err != nil {
		return nil, ActivityListResult{}, err
	}
	activities, err := t.svc.Activities.List(ctx, activity.ListOptions{From: from, To: to, SourceName: in.Source})
	if err != nil {
		return nil, ActivityListResult{}, toolError(err)
	}
	return nil, toActivityList(activities), nil
}

func (t *tools) listSelectable(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ActivityListResult, error) {
	activities, err := t.svc.Recurrences.Selectable(ctx)
	if err != nil {
		return nil, ActivityListResult{}, toolError(err)
	}
	return nil, toActivityList(activities), nil
}

func (t *tools) listSelected(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ActivityListResult, error) {
	activities, err := t.svc.Activities.ListSelected(ctx)
	if err != nil {
		return nil, ActivityListResult{}, toolError(err)
	}
	return nil, toActivityList(activities), nil
}

func (t *tools) nextActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, NextActivityResult, error) {
	next, ok, err := t.svc.Activities.Next(ctx)
	if err != nil {
		return nil, NextActivityResult{}, toolError(err)
	}
	if !ok {
		return nil, NextActivityResult{Found: false}, nil
	}
	view := toActivityView(*next)
	res := NextActivityResult{Found: true, Activity: &view}
	if start, ok := next.StartsAt(t.loc); ok {
		res.StartsAt = start.Format(time.RFC3339)
	}
	return nil, res, nil
}

func (t *tools) selectActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in SelectActivityParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	at, err := parseOptionalTime(in.Time)
	if err != nil {
		return nil, ActivityResult{}, err
	}
	if at == nil && !in.Unscheduled {
		at, err = t.defaultTime(ctx, in.ID)
		if err != nil {
			return nil, ActivityResult{}, toolError(err)
		}
	}
	a, err := t.svc.Activities.Select(ctx, in.ID, at)
	if err != nil {
		return nil, ActivityResult{}, toolError(err)
	}
	return nil, ActivityResult{Activity: toActivityView(*a)}, nil
}

// defaultTime prefers the time configured for the activity's source and
// falls back to the global preferred time.
func (t *tools) defaultTime(ctx context.Context, id int64) (*activity.TimeOfDay, error) {
	a, err := t.svc.Activities.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	at, ok, err := t.svc.Recurrences.PreferredTime(ctx, a.SourceName)
	if err != nil {
		return nil, err
	}
	if !ok {
		if at, err = t.svc.Settings.PreferredTime(ctx); err != nil {
			return nil, err
		}
	}
	return &at, nil
}

func (t *tools) deselectActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in ActivityIDParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	a, err := t.svc.Activities.Deselect(ctx, in.ID)
	if err != nil {
		return nil, ActivityResult{}, toolError(err)
	}
	return nil, ActivityResult{Activity: toActivityView(*a)}, nil
}

func (t *tools) setActivityTime(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetActivityTimeParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	at, err := parseOptionalTime(in.Time)
	if err != nil {
		return nil, ActivityResult{}, err
	}
	a, err := t.svc.Activities.SetTime(ctx, in.ID, at)
	if err != nil {
		return nil, ActivityResult{}, toolError(err)
	}
	return nil, ActivityResult{Activity: toActivityView(*a)}, nil
}

func (t *tools) completeActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in CompleteActivityParams) (*sdkmcp.CallToolResult, ActivityResult, error) {
	a, err := t.svc.Activities.Complete(ctx, in.ID, activity.CompletionDetails{
		CaloriesBurned:  in.CaloriesBurned,
		DistanceKm:      in.DistanceKm,
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	})
	if err != nil {
		return nil, ActivityResult{}, toolError(err)
	}
	return nil, ActivityResult{Activity: toActivityView(*a)}, nil
}

func (t *tools) listRecurrences(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, RecurrenceListResult, error) {
	configs, err := t.svc.Recurrences.List(ctx)
	if err != nil {
		return nil, RecurrenceListResult{}, toolError(err)
	}
	res := RecurrenceListResult{Recurrences: make([]RecurrenceView, 0, len(configs))}
	for _, cfg := range configs {
		res.Recurrences = append(res.Recurrences, toRecurrenceView(cfg))
	}
	return nil, res, nil
}

func (t *tools) saveRecurrence(ctx context.Context, _ *sdkmcp.CallToolRequest, in SaveRecurrenceParams) (*sdkmcp.CallToolResult, RecurrenceResult, error) {
	days, err := parseWeekdays(in.Days)
	if err != nil {
		return nil, RecurrenceResult{}, err
	}
	preferred := recurrence.DefaultPreferredTime
	if in.PreferredTime != "" {
		at, err := parseOptionalTime(in.PreferredTime)
		if err != nil {
			return nil, RecurrenceResult{}, err
		}
		preferred = *at
	}
	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}
	cfg, err := t.svc.Recurrences.Save(ctx, recurrence.Config{
		ID:            in.ID,
		Name:          in.Name,
		Days:          days,
		PreferredTime: preferred,
		Enabled:       enabled,
	})
	if err != nil {
		return nil, RecurrenceResult{}, toolError(err)
	}
	return nil, RecurrenceResult{Recurrence: toRecurrenceView(*cfg)}, nil
}

func (t *tools) deleteRecurrence(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecurrenceIDParams) (*sdkmcp.CallToolResult, DeletedResult, error) {
	if err := t.svc.Recurrences.Delete(ctx, in.ID); err != nil {
		return nil, DeletedResult{}, toolError(err)
	}
	return nil, DeletedResult{Deleted: true}, nil
}

func (t *tools) toggleRecurrence(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecurrenceIDParams) (*sdkmcp.CallToolResult, RecurrenceResult, error) {
	cfg, err := t.svc.Recurrences.ToggleEnabled(ctx, in.ID)
	if err != nil {
		return nil, RecurrenceResult{}, toolError(err)
	}
	return nil, RecurrenceResult{Recurrence: toRecurrenceView(*cfg)}, nil
}

func (t *tools) getSettings(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, SettingsResult, error) {
	s, err := t.svc.Settings.Get(ctx)
	if err != nil {
		return nil, SettingsResult{}, toolError(err)
	}
	return nil, toSettingsResult(s), nil
}

func (t *tools) setReminderLead(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetReminderLeadParams) (*sdkmcp.CallToolResult, SettingsResult, error) {
	if err := t.svc.Settings.SetLeadMinutes(ctx, in.Minutes); err != nil {
		return nil, SettingsResult{}, toolError(err)
	}
	return t.getSettings(ctx, nil, EmptyParams{})
}

func (t *tools) setPreferredTime(ctx context.Context, _ *sdkmcp.CallToolRequest, in SetPreferredTimeParams) (*sdkmcp.CallToolResult, SettingsResult, error) {
	at, err := parseOptionalTime(in.Time)
	if err != nil {
		return nil, SettingsResult{}, err
	}
	if at == nil {
		return nil, SettingsResult{}, invalidInput("time is required")
	}
	if err := t.svc.Settings.SetPreferredTime(ctx, *at); err != nil {
		return nil, SettingsResult{}, toolError(err)
	}
	return t.getSettings(ctx, nil, EmptyParams{})
}

func (t *tools) listReminders(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ReminderListResult, error) {
	tasks, err := t.svc.Reminders.Pending(ctx)
	if err != nil {
		return nil, ReminderListResult{}, toolError(err)
	}
	res := ReminderListResult{Reminders: make([]ReminderView, 0, len(tasks))}
	for _, task := range tasks {
		res.Reminders = append(res.Reminders, toReminderView(task))
	}
	return nil, res, nil
}

func (t *tools) getStats(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetStatsParams) (*sdkmcp.CallToolResult, StatsResult, error) {
	period := activity.PeriodWeek
	if in.Period != "" {
		p, err := activity.ParsePeriod(in.Period)
		if err != nil {
			return nil, StatsResult{}, toolError(err)
		}
		period = p
	}
	stats, err := t.svc.Activities.Stats(ctx, period)
	if err != nil {
		return nil, StatsResult{}, toolError(err)
	}
	return nil, toStatsResult(stats), nil
}
