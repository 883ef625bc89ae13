// Package scrape turns the raw output of the WOD scraper into activities.
package scrape

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/wodplus/wodplus/internal/domain/activity"
)

// Markers delimiting the JSON payload inside the scraper output.
const (
	StartMarker = "JSON_DATA_START"
	EndMarker   = "JSON_DATA_END"
)

// Each array in the payload maps to a fixed source name.
var sources = []struct {
	field string
	name  string
}{
	{field: "wods_n8", name: activity.SourceN8},
	{field: "wods_crossfitdb", name: activity.SourceCrossFitDB},
}

// entry is one scraped object. Field values are read leniently: strings are
// unquoted, other scalars keep their literal text and null counts as absent.
type entry map[string]json.RawMessage

func (e entry) field(name string) (string, bool) {
	raw, ok := e[name]
	if !ok {
		return "", false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s, true
		}
	}
	return string(raw), true
}

func (e entry) text(name string) string {
	s, _ := e.field(name)
	return s
}

// Result reports what Parse did with a payload.
type Result struct {
	Activities []activity.Activity
	// OK is false when the markers were missing or out of order and the
	// caller should fall back to sample data.
	OK bool
	// Dropped counts entries skipped for missing both date fields or for not
	// being objects.
	Dropped int
}

// Parser decodes scraper output.
type Parser struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewParser creates a parser. now supplies "today" for unparseable dates.
func NewParser(logger *slog.Logger, now func() time.Time) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if now == nil {
		now = time.Now
	}
	return &Parser{logger: logger, now: now}
}

// Parse extracts activities from raw. It never fails: missing markers yield
// OK=false, and a malformed payload or entry only loses the affected data.
func (p *Parser) Parse(raw string) Result {
	payload, ok := extractPayload(raw)
	if !ok {
		p.logger.Warn("scrape markers missing or out of order", "start", StartMarker, "end", EndMarker)
		return Result{OK: false}
	}

	var arrays map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &arrays); err != nil {
		p.logger.Warn("malformed scrape payload", "error", err)
		return Result{OK: true}
	}

	res := Result{OK: true}
	for _, src := range sources {
		rawArray, present := arrays[src.field]
		if !present {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(rawArray, &items); err != nil {
			p.logger.Warn("malformed source array", "source", src.name, "error", err)
			continue
		}
		p.logger.Debug("source entries found", "source", src.name, "count", len(items))
		for i, item := range items {
			a, ok := p.parseEntry(item, src.name)
			if !ok {
				res.Dropped++
				p.logger.Debug("dropped scrape entry", "source", src.name, "index", i)
				continue
			}
			res.Activities = append(res.Activities, a)
		}
	}
	return res
}

func (p *Parser) parseEntry(item json.RawMessage, source string) (activity.Activity, bool) {
	var e entry
	if err := json.Unmarshal(item, &e); err != nil || e == nil {
		return activity.Activity{}, false
	}
	rawDate, ok := e.field("fecha_iso")
	if !ok {
		if rawDate, ok = e.field("fecha"); !ok {
			return activity.Activity{}, false
		}
	}

	date, err := activity.ParseDate(stripTimeSuffix(rawDate))
	if err != nil {
		date = activity.DateOf(p.now())
		p.logger.Debug("unparseable scrape date, using today", "source", source, "date", rawDate)
	}

	return activity.Activity{
		Date:         date,
		WeekdayLabel: e.text("dia_semana"),
		SourceName:   source,
		Content:      e.text("contenido"),
		ContentHTML:  e.text("contenido_html"),
	}, true
}

func extractPayload(raw string) (string, bool) {
	start := strings.Index(raw, StartMarker)
	end := strings.Index(raw, EndMarker)
	if start == -1 || end == -1 {
		return "", false
	}
	from := start + len(StartMarker)
	if end < from {
		return "", false
	}
	return strings.TrimSpace(raw[from:end]), true
}

// stripTimeSuffix drops anything after the date part, e.g. "T10:00:00Z" or
// " 00:00:00".
func stripTimeSuffix(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	return s
}
