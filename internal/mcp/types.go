package mcp

import (
	"strings"
	"time"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/domain/settings"
	"github.com/wodplus/wodplus/internal/ingest"
	"github.com/wodplus/wodplus/internal/reminder"
)

// Tool inputs.

type EmptyParams struct{}

type ListActivitiesParams struct {
	From   string `json:"from,omitempty" jsonschema:"First date to include, YYYY-MM-DD"`
	To     string `json:"to,omitempty" jsonschema:"Last date to include, YYYY-MM-DD"`
	Source string `json:"source,omitempty" jsonschema:"Only activities from this source name"`
}

type IngestScrapeParams struct {
	Raw string `json:"raw" jsonschema:"Full scraper output including the JSON_DATA_START and JSON_DATA_END markers"`
}

type ActivityIDParams struct {
	ID int64 `json:"id" jsonschema:"Activity id"`
}

type SelectActivityParams struct {
	ID          int64  `json:"id" jsonschema:"Activity id"`
	Time        string `json:"time,omitempty" jsonschema:"Start time HH:MM; defaults to the source's preferred time"`
	Unscheduled bool   `json:"unscheduled,omitempty" jsonschema:"Select without a time and without a reminder"`
}

type SetActivityTimeParams struct {
	ID   int64  `json:"id" jsonschema:"Activity id"`
	Time string `json:"time,omitempty" jsonschema:"Start time HH:MM; empty clears the time and the reminder"`
}

type CompleteActivityParams struct {
	ID              int64    `json:"id" jsonschema:"Activity id"`
	CaloriesBurned  *int     `json:"calories_burned,omitempty" jsonschema:"Calories burned"`
	DistanceKm      *float64 `json:"distance_km,omitempty" jsonschema:"Distance in kilometers"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" jsonschema:"Duration in minutes"`
	Notes           *string  `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

type SaveRecurrenceParams struct {
	ID            int64    `json:"id,omitempty" jsonschema:"Config id; omit to create a new config"`
	Name          string   `json:"name" jsonschema:"Source name; activities match it exactly"`
	Days          []string `json:"days" jsonschema:"Weekdays, e.g. monday or lunes"`
	PreferredTime string   `json:"preferred_time,omitempty" jsonschema:"Suggested start time HH:MM, default 18:00"`
	Enabled       *bool    `json:"enabled,omitempty" jsonschema:"Whether the config is active, default true"`
}

type RecurrenceIDParams struct {
	ID int64 `json:"id" jsonschema:"Recurrence config id"`
}

type SetReminderLeadParams struct {
	Minutes int `json:"minutes" jsonschema:"Minutes before the start time the reminder fires"`
}

type SetPreferredTimeParams struct {
	Time string `json:"time" jsonschema:"Default time HH:MM for new selections"`
}

type GetStatsParams struct {
	Period string `json:"period,omitempty" jsonschema:"week, month or year; default week"`
}

// Tool outputs.

type ActivityView struct {
	ID              int64    `json:"id"`
	Date            string   `json:"date"`
	Weekday         string   `json:"weekday"`
	Source          string   `json:"source"`
	Content         string   `json:"content"`
	ContentHTML     string   `json:"content_html,omitempty"`
	Time            string   `json:"time,omitempty"`
	Selected        bool     `json:"selected"`
	ReminderActive  bool     `json:"reminder_active"`
	Completed       bool     `json:"completed"`
	CompletedAt     string   `json:"completed_at,omitempty"`
	CaloriesBurned  *int     `json:"calories_burned,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

type DayView struct {
	Date       string         `json:"date"`
	Activities []ActivityView `json:"activities"`
}

type ActivityListResult struct {
	Count int       `json:"count"`
	Days  []DayView `json:"days"`
}

type ActivityResult struct {
	Activity ActivityView `json:"activity"`
}

type NextActivityResult struct {
	Found    bool          `json:"found"`
	Activity *ActivityView `json:"activity,omitempty"`
	StartsAt string        `json:"starts_at,omitempty"`
}

type IngestResult struct {
	Saved        int  `json:"saved"`
	Scraped      int  `json:"scraped"`
	Materialized int  `json:"materialized"`
	Dropped      int  `json:"dropped"`
	Fallback     bool `json:"fallback"`
}

type RecurrenceView struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Days          []string `json:"days"`
	PreferredTime string   `json:"preferred_time"`
	Enabled       bool     `json:"enabled"`
	BuiltIn       bool     `json:"built_in"`
}

type RecurrenceListResult struct {
	Recurrences []RecurrenceView `json:"recurrences"`
}

type RecurrenceResult struct {
	Recurrence RecurrenceView `json:"recurrence"`
}

type DeletedResult struct {
	Deleted bool `json:"deleted"`
}

type SettingsResult struct {
	ReminderLeadMinutes int    `json:"reminder_lead_minutes"`
	PreferredTime       string `json:"preferred_time"`
}

type DayCountView struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type StatsResult struct {
	Period          string         `json:"period"`
	From            string         `json:"from"`
	To              string         `json:"to"`
	TotalWorkouts   int            `json:"total_workouts"`
	TotalCalories   int            `json:"total_calories"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	TotalMinutes    int            `json:"total_minutes"`
	BySource        map[string]int `json:"by_source"`
	ByDay           []DayCountView `json:"by_day"`
}

type ReminderView struct {
	Key        string `json:"key"`
	ActivityID int64  `json:"activity_id"`
	FireAt     string `json:"fire_at"`
}

type ReminderListResult struct {
	Reminders []ReminderView `json:"reminders"`
}

// Conversions.

func toActivityView(a activity.Activity) ActivityView {
	v := ActivityView{
		ID:              a.ID,
		Date:            a.Date.String(),
		Weekday:         a.WeekdayLabel,
		Source:          a.SourceName,
		Content:         a.Content,
		ContentHTML:     a.ContentHTML,
		Selected:        a.Selected,
		ReminderActive:  a.ReminderActive,
		Completed:       a.Completed,
		CaloriesBurned:  a.CaloriesBurned,
		DistanceKm:      a.DistanceKm,
		DurationMinutes: a.DurationMinutes,
		Notes:           a.Notes,
	}
	if a.Time != nil {
		v.Time = a.Time.String()
	}
	if a.CompletedAt != nil {
		v.CompletedAt = a.CompletedAt.Format(time.RFC3339)
	}
	return v
}

func toActivityList(activities []activity.Activity) ActivityListResult {
	groups := activity.GroupByDate(activities)
	res := ActivityListResult{Count: len(activities), Days: make([]DayView, 0, len(groups))}
	for _, g := range groups {
		day := DayView{Date: g.Date.String(), Activities: make([]ActivityView, 0, len(g.Activities))}
		for _, a := range g.Activities {
			day.Activities = append(day.Activities, toActivityView(a))
		}
		res.Days = append(res.Days, day)
	}
	return res
}

func toIngestResult(r *ingest.Result) IngestResult {
	return IngestResult{
		Saved:        r.Total(),
		Scraped:      r.Scraped,
		Materialized: r.Materialized,
		Dropped:      r.Dropped,
		Fallback:     r.Fallback,
	}
}

func toRecurrenceView(cfg recurrence.Config) RecurrenceView {
	v := RecurrenceView{
		ID:            cfg.ID,
		Name:          cfg.Name,
		Days:          []string{},
		PreferredTime: cfg.PreferredTime.String(),
		Enabled:       cfg.Enabled,
		BuiltIn:       cfg.BuiltIn,
	}
	// Monday first, the way the week is shown to users.
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		if cfg.Days.On(wd) {
			v.Days = append(v.Days, strings.ToLower(wd.String()))
		}
	}
	return v
}

func toSettingsResult(s settings.Settings) SettingsResult {
	return SettingsResult{ReminderLeadMinutes: s.LeadMinutes, PreferredTime: s.PreferredTime.String()}
}

func toStatsResult(s *activity.Stats) StatsResult {
	res := StatsResult{
		Period:          string(s.Period),
		From:            s.From.Format(time.RFC3339),
		To:              s.To.Format(time.RFC3339),
		TotalWorkouts:   s.TotalWorkouts,
		TotalCalories:   s.TotalCalories,
		TotalDistanceKm: s.TotalDistanceKm,
		TotalMinutes:    s.TotalMinutes,
		BySource:        s.BySource,
		ByDay:           make([]DayCountView, 0, len(s.ByDay)),
	}
	for _, d := range s.ByDay {
		res.ByDay = append(res.ByDay, DayCountView{Date: d.Date.String(), Count: d.Count})
	}
	return res
}

func toReminderView(t reminder.Task) ReminderView {
	return ReminderView{Key: t.Key, ActivityID: t.ActivityID, FireAt: t.FireAt.Format(time.RFC3339)}
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "domingo": time.Sunday,
	"monday": time.Monday, "lunes": time.Monday,
	"tuesday": time.Tuesday, "martes": time.Tuesday,
	"wednesday": time.Wednesday, "miércoles": time.Wednesday, "miercoles": time.Wednesday,
	"thursday": time.Thursday, "jueves": time.Thursday,
	"friday": time.Friday, "viernes": time.Friday,
	"saturday": time.Saturday, "sábado": time.Saturday, "sabado": time.Saturday,
}

func parseWeekdays(names []string) (recurrence.Weekdays, error) {
	var days []time.Weekday
	for _, name := range names {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return recurrence.Weekdays{}, invalidInput("unknown weekday %q", name)
		}
		days = append(days, wd)
	}
	return recurrence.WeekdaysOf(days...), nil
}

func parseOptionalTime(s string) (*activity.TimeOfDay, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := activity.ParseTimeOfDay(s)
	if err != nil {
		return nil, invalidInput("time must be HH:MM, got %q", s)
	}
	return &t, nil
}

func parseOptionalDate(field, s string) (*activity.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := activity.ParseDate(s)
	if err != nil {
		return nil, invalidInput("%s must be YYYY-MM-DD, got %q", field, s)
	}
	return &d, nil
}
