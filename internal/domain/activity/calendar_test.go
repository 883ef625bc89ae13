package activity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wodplus/wodplus/internal/domain/activity"
)

func TestParseDate(t *testing.T) {
	d, err := activity.ParseDate("2025-03-10")
	require.NoError(t, err)
	require.Equal(t, activity.NewDate(2025, time.March, 10), d)
	require.Equal(t, time.Monday, d.Weekday())
	require.Equal(t, "2025-03-10", d.String())

	_, err = activity.ParseDate("10/03/2025")
	require.Error(t, err)
}

func TestDateAddDaysCrossesMonth(t *testing.T) {
	d := activity.NewDate(2025, time.February, 27).AddDays(3)
	require.Equal(t, "2025-03-02", d.String())
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := activity.ParseTimeOfDay("07:05")
	require.NoError(t, err)
	require.Equal(t, activity.TimeOfDay{Hour: 7, Minute: 5}, got)
	require.Equal(t, "07:05", got.String())

	_, err = activity.ParseTimeOfDay("25:00")
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestWeekdayLabel(t *testing.T) {
	require.Equal(t, "Lunes", activity.WeekdayLabel(time.Monday))
	require.Equal(t, "Miércoles", activity.WeekdayLabel(time.Wednesday))
	require.Equal(t, "Sábado", activity.WeekdayLabel(time.Saturday))
	require.Equal(t, "Domingo", activity.WeekdayLabel(time.Sunday))
}
