package recurrence

import (
	"time"

	"github.com/wodplus/wodplus/internal/domain/activity"
)

// Weekdays holds one attendance flag per day, indexed by time.Weekday.
type Weekdays [7]bool

// WeekdaysOf returns a set with the given days enabled.
func WeekdaysOf(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w[d] = true
	}
	return w
}

// MondayToSaturday is the default pattern for the built-in sources.
var MondayToSaturday = WeekdaysOf(
	time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
)

// On reports whether d is enabled.
func (w Weekdays) On(d time.Weekday) bool {
	return w[d]
}

// Any reports whether at least one day is enabled.
func (w Weekdays) Any() bool {
	for _, on := range w {
		if on {
			return true
		}
	}
	return false
}

// DefaultPreferredTime is suggested when a config has no explicit time.
var DefaultPreferredTime = activity.TimeOfDay{Hour: 18, Minute: 0}

// Config is a named weekly attendance pattern. Its Name matches
// Activity.SourceName exactly.
type Config struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Days          Weekdays           `json:"days"`
	PreferredTime activity.TimeOfDay `json:"preferred_time"`
	Enabled       bool               `json:"enabled"`
	BuiltIn       bool               `json:"built_in"`
}

// AppliesTo reports whether the config is enabled and scheduled on d's weekday.
func (c Config) AppliesTo(d activity.Date) bool {
	return c.Enabled && c.Days.On(d.Weekday())
}

// BuiltIns returns the seed configs for the scraped sources.
func BuiltIns() []Config {
	return []Config{
		{
			Name:          activity.SourceCrossFitDB,
			Days:          MondayToSaturday,
			PreferredTime: DefaultPreferredTime,
			Enabled:       true,
			BuiltIn:       true,
		},
		{
			Name:          activity.SourceN8,
			Days:          MondayToSaturday,
			PreferredTime: DefaultPreferredTime,
			Enabled:       true,
			BuiltIn:       true,
		},
	}
}
