package activity

import "time"

// Built-in sources backed by the external scrape.
const (
	SourceCrossFitDB = "CrossFit DB"
	SourceN8         = "N8"
)

// IsBuiltInSource reports whether name is one of the scraped sources.
func IsBuiltInSource(name string) bool {
	return name == SourceCrossFitDB || name == SourceN8
}

// Activity is one dated workout session, scraped or generated from a recurrence.
type Activity struct {
	ID              int64      `json:"id"`
	Date            Date       `json:"date"`
	WeekdayLabel    string     `json:"weekday_label"`
	SourceName      string     `json:"source_name"`
	Content         string     `json:"content"`
	ContentHTML     string     `json:"content_html,omitempty"`
	Time            *TimeOfDay `json:"time,omitempty"`
	ReminderActive  bool       `json:"reminder_active"`
	Selected        bool       `json:"selected"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CaloriesBurned  *int       `json:"calories_burned,omitempty"`
	DistanceKm      *float64   `json:"distance_km,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// StartsAt returns the activity's date and time in loc. ok is false when the
// activity is unscheduled.
func (a Activity) StartsAt(loc *time.Location) (start time.Time, ok bool) {
	if a.Time == nil {
		return time.Time{}, false
	}
	return a.Date.At(*a.Time, loc), true
}

// CompletionDetails carries the optional metrics recorded on completion.
type CompletionDetails struct {
	CaloriesBurned  *int
	DistanceKm      *float64
	DurationMinutes *int
	Notes           *string
}

func (c CompletionDetails) valid() bool {
	if c.CaloriesBurned != nil && *c.CaloriesBurned < 0 {
		return false
	}
	if c.DistanceKm != nil && *c.DistanceKm < 0 {
		return false
	}
	if c.DurationMinutes != nil && *c.DurationMinutes < 0 {
		return false
	}
	return true
}
