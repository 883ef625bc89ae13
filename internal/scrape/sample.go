package scrape

import "github.com/wodplus/wodplus/internal/domain/activity"

const (
	sampleDays = 7

	sampleCrossFitDB = "STRENGTH\n5x5 Back Squat\n\nMETCON\n21-15-9\nThrusters\nPull-ups"
	sampleN8         = "AMRAP 20'\n10 Box Jumps\n15 Wall Balls\n20 Double Unders"
)

// SampleActivities returns placeholder workouts for both built-in sources on
// the seven days starting at today.
func SampleActivities(today activity.Date) []activity.Activity {
	out := make([]activity.Activity, 0, sampleDays*2)
	for i := 0; i < sampleDays; i++ {
		date := today.AddDays(i)
		label := activity.WeekdayLabel(date.Weekday())
		out = append(out,
			activity.Activity{
				Date:         date,
				WeekdayLabel: label,
				SourceName:   activity.SourceCrossFitDB,
				Content:      sampleCrossFitDB,
			},
			activity.Activity{
				Date:         date,
				WeekdayLabel: label,
				SourceName:   activity.SourceN8,
				Content:      sampleN8,
			},
		)
	}
	return out
}
