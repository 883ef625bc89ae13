package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wodplus/wodplus/internal/domain/activity"
)

var fixedNow = time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)

func newTestParser() *Parser {
	return NewParser(nil, func() time.Time { return fixedNow })
}

func wrap(payload string) string {
	return "scraper log line\n" + StartMarker + "\n" + payload + "\n" + EndMarker + "\ntrailing output"
}

func TestParse_BothSources(t *testing.T) {
	raw := wrap(`{
		"wods_crossfitdb": [
			{"fecha_iso": "2025-03-10T00:00:00Z", "dia_semana": "Lunes", "contenido": "Fran", "contenido_html": "<p>Fran</p>"}
		],
		"wods_n8": [
			{"fecha": "2025-03-10 00:00:00", "dia_semana": "Lunes", "contenido": "Cindy", "contenido_html": ""},
			{"fecha_iso": "2025-03-11", "fecha": "1999-01-01", "dia_semana": "Martes", "contenido": "Grace", "contenido_html": ""}
		]
	}`)

	res := newTestParser().Parse(raw)
	require.True(t, res.OK)
	require.Zero(t, res.Dropped)
	require.Len(t, res.Activities, 3)

	// N8 entries come first.
	require.Equal(t, activity.SourceN8, res.Activities[0].SourceName)
	require.Equal(t, "Cindy", res.Activities[0].Content)
	require.Equal(t, activity.NewDate(2025, time.March, 10), res.Activities[0].Date)
	require.Equal(t, activity.NewDate(2025, time.March, 11), res.Activities[1].Date)
	require.Equal(t, activity.SourceCrossFitDB, res.Activities[2].SourceName)
	require.Equal(t, "<p>Fran</p>", res.Activities[2].ContentHTML)
	require.Equal(t, "Lunes", res.Activities[2].WeekdayLabel)

	for _, a := range res.Activities {
		require.False(t, a.Selected)
		require.False(t, a.Completed)
		require.Nil(t, a.Time)
	}
}

func TestParse_MissingMarkers(t *testing.T) {
	res := newTestParser().Parse(`{"wods_n8": []}`)
	require.False(t, res.OK)
	require.Empty(t, res.Activities)

	res = newTestParser().Parse("JSON_DATA_START only")
	require.False(t, res.OK)

	res = newTestParser().Parse(EndMarker + ` {"wods_n8": []} ` + StartMarker)
	require.False(t, res.OK)
	require.Empty(t, res.Activities)
}

func TestParse_MalformedPayloadIsEmptySuccess(t *testing.T) {
	res := newTestParser().Parse(wrap(`{not json`))
	require.True(t, res.OK)
	require.Empty(t, res.Activities)
}

func TestParse_EntryEdgeCases(t *testing.T) {
	raw := wrap(`{
		"wods_n8": [
			{"dia_semana": "Lunes", "contenido": "no date"},
			{"fecha": "ayer", "dia_semana": "Lunes", "contenido": "bad date"},
			"not an object",
			{"fecha_iso": null, "fecha": "2025-03-10", "dia_semana": "Lunes", "contenido": "null iso"}
		],
		"wods_crossfitdb": "not an array"
	}`)

	res := newTestParser().Parse(raw)
	require.True(t, res.OK)
	require.Equal(t, 2, res.Dropped)
	require.Len(t, res.Activities, 2)
	require.Equal(t, activity.DateOf(fixedNow), res.Activities[0].Date)
	require.Equal(t, "bad date", res.Activities[0].Content)
	require.Equal(t, activity.NewDate(2025, time.March, 10), res.Activities[1].Date)
}

func TestParse_NonStringFieldsAreCoerced(t *testing.T) {
	raw := wrap(`{
		"wods_n8": [
			{"fecha": 20250120, "dia_semana": "Lunes", "contenido": "numeric date"},
			{"fecha": "2025-01-21", "dia_semana": 2, "contenido": "numeric weekday", "contenido_html": null},
			{"fecha_iso": false, "dia_semana": "Jueves", "contenido": 42},
			null
		]
	}`)

	res := newTestParser().Parse(raw)
	require.True(t, res.OK)
	require.Equal(t, 1, res.Dropped)
	require.Len(t, res.Activities, 3)

	require.Equal(t, activity.DateOf(fixedNow), res.Activities[0].Date)
	require.Equal(t, "numeric date", res.Activities[0].Content)

	require.Equal(t, activity.NewDate(2025, time.January, 21), res.Activities[1].Date)
	require.Equal(t, "2", res.Activities[1].WeekdayLabel)
	require.Empty(t, res.Activities[1].ContentHTML)

	require.Equal(t, activity.DateOf(fixedNow), res.Activities[2].Date)
	require.Equal(t, "42", res.Activities[2].Content)
}

func TestParse_OneArrayMissing(t *testing.T) {
	res := newTestParser().Parse(wrap(`{"wods_crossfitdb": [{"fecha": "2025-03-10", "dia_semana": "Lunes", "contenido": "x"}]}`))
	require.True(t, res.OK)
	require.Len(t, res.Activities, 1)
	require.Equal(t, activity.SourceCrossFitDB, res.Activities[0].SourceName)
}

func TestStripTimeSuffix(t *testing.T) {
	require.Equal(t, "2025-03-10", stripTimeSuffix("2025-03-10T10:00:00Z"))
	require.Equal(t, "2025-03-10", stripTimeSuffix("2025-03-10 10:00"))
	require.Equal(t, "2025-03-10", stripTimeSuffix(" 2025-03-10 "))
}

func TestSampleActivities(t *testing.T) {
	today := activity.NewDate(2025, time.March, 12)
	got := SampleActivities(today)
	require.Len(t, got, 14)

	dates := map[activity.Date]int{}
	for _, a := range got {
		dates[a.Date]++
		require.True(t, activity.IsBuiltInSource(a.SourceName))
		require.NotEmpty(t, a.Content)
	}
	require.Len(t, dates, 7)
	require.Equal(t, today, got[0].Date)
	require.Equal(t, today.AddDays(6), got[13].Date)
	require.Equal(t, "Miércoles", got[0].WeekdayLabel)
}
