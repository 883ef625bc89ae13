package recurrence

import "github.com/wodplus/wodplus/internal/domain/activity"

// FilterSelectable keeps the activities whose source has an enabled config
// scheduled on the activity's weekday.
func FilterSelectable(all []activity.Activity, configs []Config) []activity.Activity {
	byName := make(map[string]Config, len(configs))
	for _, cfg := range configs {
		if _, dup := byName[cfg.Name]; !dup {
			byName[cfg.Name] = cfg
		}
	}
	out := make([]activity.Activity, 0, len(all))
	for _, a := range all {
		cfg, ok := byName[a.SourceName]
		if ok && cfg.AppliesTo(a.Date) {
			out = append(out, a)
		}
	}
	return out
}
