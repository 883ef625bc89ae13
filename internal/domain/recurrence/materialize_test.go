package recurrence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
)

var monday = activity.NewDate(2025, time.March, 10)

func scrapedOn(d activity.Date, source string) activity.Activity {
	return activity.Activity{Date: d, WeekdayLabel: activity.WeekdayLabel(d.Weekday()), SourceName: source, Content: "WOD"}
}

func TestMaterialize_MondayOnlyConfig(t *testing.T) {
	tuesday := monday.AddDays(1)
	scraped := []activity.Activity{
		scrapedOn(tuesday, activity.SourceN8),
		scrapedOn(monday, activity.SourceN8),
		scrapedOn(monday, activity.SourceCrossFitDB),
	}
	configs := append(recurrence.BuiltIns(), recurrence.Config{
		Name:          "Gimnasio",
		Days:          recurrence.WeekdaysOf(time.Monday),
		PreferredTime: recurrence.DefaultPreferredTime,
		Enabled:       true,
	})

	out := recurrence.Materialize(scraped, configs)
	require.Len(t, out, 1)
	require.Equal(t, monday, out[0].Date)
	require.Equal(t, "Gimnasio", out[0].SourceName)
	require.Equal(t, "Lunes", out[0].WeekdayLabel)
	require.Equal(t, "Sesión de Gimnasio\n\nConfigurado para Luness", out[0].Content)
	require.Contains(t, out[0].ContentHTML, "<strong>Sesión de Gimnasio</strong>")
	require.False(t, out[0].Selected)
	require.Nil(t, out[0].Time)
}

func TestMaterialize_OrderByDateThenConfig(t *testing.T) {
	scraped := []activity.Activity{scrapedOn(monday.AddDays(1), activity.SourceN8), scrapedOn(monday, activity.SourceN8)}
	configs := []recurrence.Config{
		{Name: "Yoga", Days: recurrence.MondayToSaturday, Enabled: true},
		{Name: "Natación", Days: recurrence.MondayToSaturday, Enabled: true},
	}

	out := recurrence.Materialize(scraped, configs)
	require.Len(t, out, 4)
	require.Equal(t, []string{"Yoga", "Natación", "Yoga", "Natación"}, []string{
		out[0].SourceName, out[1].SourceName, out[2].SourceName, out[3].SourceName,
	})
	require.Equal(t, monday, out[0].Date)
	require.Equal(t, monday.AddDays(1), out[3].Date)
}

func TestMaterialize_Skips(t *testing.T) {
	sunday := monday.AddDays(6)
	scraped := []activity.Activity{scrapedOn(sunday, activity.SourceN8)}

	tests := []struct {
		name    string
		scraped []activity.Activity
		configs []recurrence.Config
	}{
		{
			name:    "no scraped dates",
			configs: []recurrence.Config{{Name: "Gimnasio", Days: recurrence.WeekdaysOf(time.Sunday), Enabled: true}},
		},
		{
			name:    "disabled config",
			scraped: scraped,
			configs: []recurrence.Config{{Name: "Gimnasio", Days: recurrence.WeekdaysOf(time.Sunday)}},
		},
		{
			name:    "weekday not enabled",
			scraped: scraped,
			configs: []recurrence.Config{{Name: "Gimnasio", Days: recurrence.MondayToSaturday, Enabled: true}},
		},
		{
			name:    "built-in name",
			scraped: scraped,
			configs: []recurrence.Config{{Name: activity.SourceN8, Days: recurrence.WeekdaysOf(time.Sunday), Enabled: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Empty(t, recurrence.Materialize(tt.scraped, tt.configs))
		})
	}
}

func TestFilterSelectable(t *testing.T) {
	sunday := monday.AddDays(6)
	all := []activity.Activity{
		scrapedOn(monday, activity.SourceN8),
		scrapedOn(sunday, activity.SourceN8),
		scrapedOn(monday, activity.SourceCrossFitDB),
		scrapedOn(monday, "Huérfano"),
	}
	configs := recurrence.BuiltIns()
	configs[0].Enabled = false

	got := recurrence.FilterSelectable(all, configs)
	require.Len(t, got, 1)
	require.Equal(t, activity.SourceN8, got[0].SourceName)
	require.Equal(t, monday, got[0].Date)
}
