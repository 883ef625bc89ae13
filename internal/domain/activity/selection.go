package activity

import (
	"sort"
	"time"
)

// NextUpcoming returns the selected, unfinished, timed activity whose start is
// the earliest one strictly after now. Ties keep the first encountered.
func NextUpcoming(activities []Activity, now time.Time) (*Activity, bool) {
	loc := now.Location()
	var (
		next  *Activity
		start time.Time
	)
	for i := range activities {
		a := activities[i]
		if !a.Selected || a.Completed {
			continue
		}
		at, ok := a.StartsAt(loc)
		if !ok || !at.After(now) {
			continue
		}
		if next == nil || at.Before(start) {
			next = &activities[i]
			start = at
		}
	}
	if next == nil {
		return nil, false
	}
	found := *next
	return &found, true
}

// DayGroup holds the activities sharing a date.
type DayGroup struct {
	Date       Date       `json:"date"`
	Activities []Activity `json:"activities"`
}

// GroupByDate groups activities by date in ascending order, preserving the
// relative order inside each day.
func GroupByDate(activities []Activity) []DayGroup {
	index := make(map[Date]int)
	var groups []DayGroup
	for _, a := range activities {
		i, ok := index[a.Date]
		if !ok {
			i = len(groups)
			index[a.Date] = i
			groups = append(groups, DayGroup{Date: a.Date})
		}
		groups[i].Activities = append(groups[i].Activities, a)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.Before(groups[j].Date)
	})
	return groups
}
