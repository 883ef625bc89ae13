package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `wodplus plans gym workouts from scraped WODs (workouts of the day).

Core concepts:
- Activity: one workout on one date from one source (a gym or a custom routine).
- Source: the name an activity belongs to. Scraped sources are "N8" and "CrossFit DB".
- Recurrence: a weekly day set per source. Only activities on enabled days are selectable.
- Selection: the user picks an activity and a start time; a reminder fires lead minutes before it.

Rules of engagement:
1) Orient: call next_activity and list_selected.
2) Plan: call list_selectable, then select_activity with an id and optional time.
3) Refresh data with refresh_wods (runs the scraper) or ingest_scrape (raw output).
   Ingestion REPLACES everything: selections, times and completions are lost and ids change.
4) After training, call complete_activity with any metrics the user reports.
5) Use get_stats for summaries over a week, month or year.

Docs:
- wodplus://docs/index
- wodplus://docs/ingestion
- wodplus://docs/reminders
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "wodplus://docs/index",
		Name:        "docs_index",
		Title:       "wodplus docs index",
		Description: "Entry point: tools grouped by task and the docs worth reading.",
		Content: `# wodplus

## Tools by task

- Browse: ` + "`list_activities`" + `, ` + "`list_selectable`" + `, ` + "`list_selected`" + `, ` + "`next_activity`" + `.
- Plan: ` + "`select_activity`" + `, ` + "`set_activity_time`" + `, ` + "`deselect_activity`" + `.
- Record: ` + "`complete_activity`" + `, ` + "`get_stats`" + `.
- Configure: ` + "`list_recurrences`" + `, ` + "`save_recurrence`" + `, ` + "`toggle_recurrence`" + `, ` + "`delete_recurrence`" + `.
- Preferences: ` + "`get_settings`" + `, ` + "`set_reminder_lead`" + `, ` + "`set_preferred_time`" + `, ` + "`list_reminders`" + `.
- Data: ` + "`refresh_wods`" + `, ` + "`ingest_scrape`" + `.

## Docs

- ` + "`wodplus://docs/ingestion`" + `: scraper output format and what a refresh does to stored data.
- ` + "`wodplus://docs/reminders`" + `: when reminders fire and when they are skipped.

## Limits

- Activity ids are not stable across ingests. Always list again after a refresh.
- Dates are plain calendar dates; times are HH:MM in the server's time zone.
`,
	},
	{
		URI:         "wodplus://docs/ingestion",
		Name:        "docs_ingestion",
		Title:       "Ingestion",
		Description: "Scraper output format, sample fallback and replacement semantics.",
		Content: `# Ingestion

The scraper prints a JSON object between two marker lines:

    JSON_DATA_START
    {"wods_n8": [...], "wods_crossfitdb": [...]}
    JSON_DATA_END

Entries in ` + "`wods_n8`" + ` become "N8" activities and entries in
` + "`wods_crossfitdb`" + ` become "CrossFit DB" activities. Each entry carries
` + "`fecha_iso`" + ` or ` + "`fecha`" + `, ` + "`dia_semana`" + `,
` + "`contenido`" + ` and ` + "`contenido_html`" + `. Entries with neither date
field are dropped; an unparseable date falls back to today.

When the markers are missing, a week of sample workouts starting today is
loaded instead. Output that yields no workouts at all, such as malformed
JSON between the markers, leaves the stored workouts untouched.

## Replacement

Every ingest deletes ALL stored activities and inserts:

1. The scraped activities.
2. One activity per date for each enabled custom recurrence scheduled on that weekday.

Selections, times, completions and reminders do not survive. The swap is
atomic: a failure leaves the previous data in place.
`,
	},
	{
		URI:         "wodplus://docs/reminders",
		Name:        "docs_reminders",
		Title:       "Reminders",
		Description: "How reminder fire times are computed and kept in sync.",
		Content: `# Reminders

A reminder exists only for an activity that is selected, has a time and is
not completed. It fires ` + "`reminder_lead_minutes`" + ` (default 60) before
the start time.

- Selecting or changing the time reschedules it.
- Deselecting or completing cancels it.
- A fire time already in the past is never scheduled.
- Changing the lead time reschedules every pending reminder.
- Reminders are stored, so they survive restarts. Overdue ones fire at startup.

` + "`list_reminders`" + ` shows what is pending, ordered by fire time.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
