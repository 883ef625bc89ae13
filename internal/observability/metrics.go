// Package observability exposes Prometheus metrics for the ingestion and
// reminder pipeline.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion outcomes.
const (
	OutcomeScraped  = "scraped"
	OutcomeFallback = "fallback"
	OutcomeEmpty    = "empty"
	OutcomeFailed   = "failed"
)

var (
	ingestRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wodplus",
		Subsystem: "ingest",
		Name:      "runs_total",
		Help:      "Ingestion runs by outcome (scraped, fallback to sample data, empty, failed).",
	}, []string{"outcome"})
	ingestActivities = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wodplus",
		Subsystem: "ingest",
		Name:      "activities_total",
		Help:      "Activities written by ingestion, split by scraped and materialized.",
	}, []string{"kind"})
	parserDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wodplus",
		Subsystem: "ingest",
		Name:      "dropped_entries_total",
		Help:      "Scrape entries skipped for lacking a date.",
	})
	lastIngest = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wodplus",
		Subsystem: "ingest",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful ingestion.",
	})
	remindersScheduled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wodplus",
		Subsystem: "reminder",
		Name:      "scheduled_total",
		Help:      "Reminder tasks registered.",
	})
	remindersCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wodplus",
		Subsystem: "reminder",
		Name:      "cancelled_total",
		Help:      "Reminder cancellation requests.",
	})
	remindersFired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wodplus",
		Subsystem: "reminder",
		Name:      "fired_total",
		Help:      "Reminder tasks fired, by result (delivered, missing, failed).",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		ingestRuns,
		ingestActivities,
		parserDropped,
		lastIngest,
		remindersScheduled,
		remindersCancelled,
		remindersFired,
	)
}

// RecordIngest counts one ingestion run.
func RecordIngest(outcome string, scraped, materialized, dropped int, at time.Time) {
	ingestRuns.WithLabelValues(outcome).Inc()
	if outcome == OutcomeFailed {
		return
	}
	ingestActivities.WithLabelValues("scraped").Add(float64(scraped))
	ingestActivities.WithLabelValues("materialized").Add(float64(materialized))
	parserDropped.Add(float64(dropped))
	if !at.IsZero() {
		lastIngest.Set(float64(at.Unix()))
	}
}

// RecordReminderScheduled counts a registered reminder.
func RecordReminderScheduled() {
	remindersScheduled.Inc()
}

// RecordReminderCancelled counts a cancellation request.
func RecordReminderCancelled() {
	remindersCancelled.Inc()
}

// RecordReminderFired counts a fired reminder by result.
func RecordReminderFired(result string) {
	remindersFired.WithLabelValues(result).Inc()
}
