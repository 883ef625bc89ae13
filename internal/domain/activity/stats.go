package activity

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Period selects the window covered by Stats.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q: %w", s, ErrInvalidInput)
	}
}

func (p Period) start(end time.Time) time.Time {
	switch p {
	case PeriodMonth:
		return end.AddDate(0, -1, 0)
	case PeriodYear:
		return end.AddDate(-1, 0, 0)
	default:
		return end.AddDate(0, 0, -7)
	}
}

// DayCount is the number of workouts completed on a day.
type DayCount struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// Stats aggregates completed activities over a period.
type Stats struct {
	Period          Period         `json:"period"`
	From            time.Time      `json:"from"`
	To              time.Time      `json:"to"`
	TotalWorkouts   int            `json:"total_workouts"`
	TotalCalories   int            `json:"total_calories"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	TotalMinutes    int            `json:"total_minutes"`
	BySource        map[string]int `json:"by_source"`
	ByDay           []DayCount     `json:"by_day"`
}

// Stats summarizes the activities completed within the period ending now.
func (s *Service) Stats(ctx context.Context, period Period) (*Stats, error) {
	end := s.now()
	start := period.start(end)
	completed, err := s.repo.ListCompletedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing completed activities: %w", err)
	}
	stats := Summarize(completed, end.Location())
	stats.Period = period
	stats.From = start
	stats.To = end
	return stats, nil
}

// Summarize aggregates completion metrics; days are bucketed in loc.
func Summarize(completed []Activity, loc *time.Location) *Stats {
	stats := &Stats{BySource: make(map[string]int)}
	perDay := make(map[Date]int)
	for _, a := range completed {
		stats.TotalWorkouts++
		if a.CaloriesBurned != nil {
			stats.TotalCalories += *a.CaloriesBurned
		}
		if a.DistanceKm != nil {
			stats.TotalDistanceKm += *a.DistanceKm
		}
		if a.DurationMinutes != nil {
			stats.TotalMinutes += *a.DurationMinutes
		}
		stats.BySource[a.SourceName]++
		if a.CompletedAt != nil {
			perDay[DateOf(a.CompletedAt.In(loc))]++
		}
	}
	for d, n := range perDay {
		stats.ByDay = append(stats.ByDay, DayCount{Date: d, Count: n})
	}
	sort.Slice(stats.ByDay, func(i, j int) bool {
		return stats.ByDay[i].Date.Before(stats.ByDay[j].Date)
	})
	return stats
}
