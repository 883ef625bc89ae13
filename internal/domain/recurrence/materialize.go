package recurrence

import (
	"fmt"
	"sort"

	"github.com/wodplus/wodplus/internal/domain/activity"
)

// Materialize expands enabled custom configs onto the dates present in the
// scraped activities. Built-in names are skipped so scraped sources are never
// duplicated. Output is ordered by date, then by config order.
func Materialize(scraped []activity.Activity, configs []Config) []activity.Activity {
	if len(scraped) == 0 {
		return nil
	}
	custom := make([]Config, 0, len(configs))
	for _, cfg := range configs {
		if cfg.Enabled && !activity.IsBuiltInSource(cfg.Name) {
			custom = append(custom, cfg)
		}
	}
	if len(custom) == 0 {
		return nil
	}

	var out []activity.Activity
	for _, date := range distinctDates(scraped) {
		label := activity.WeekdayLabel(date.Weekday())
		for _, cfg := range custom {
			if !cfg.Days.On(date.Weekday()) {
				continue
			}
			out = append(out, activity.Activity{
				Date:         date,
				WeekdayLabel: label,
				SourceName:   cfg.Name,
				Content:      fmt.Sprintf("Sesión de %s\n\nConfigurado para %ss", cfg.Name, label),
				ContentHTML:  fmt.Sprintf("<div><strong>Sesión de %s</strong></div><div>Configurado para %ss</div>", cfg.Name, label),
			})
		}
	}
	return out
}

func distinctDates(activities []activity.Activity) []activity.Date {
	seen := make(map[activity.Date]struct{}, len(activities))
	dates := make([]activity.Date, 0, len(activities))
	for _, a := range activities {
		if _, ok := seen[a.Date]; ok {
			continue
		}
		seen[a.Date] = struct{}{}
		dates = append(dates, a.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
