package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/repository"
)

func TestRecurrenceRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecurrenceRepository(db)

	cfg := &recurrence.Config{
		Name:          "Gimnasio",
		Days:          recurrence.WeekdaysOf(time.Monday, time.Sunday),
		PreferredTime: activity.TimeOfDay{Hour: 7, Minute: 15},
		Enabled:       true,
	}
	require.NoError(t, repo.Create(ctx, cfg))
	require.NotZero(t, cfg.ID)

	got, err := repo.Get(ctx, cfg.ID)
	require.NoError(t, err)
	require.Equal(t, *cfg, *got)
	require.True(t, got.Days.On(time.Sunday))
	require.False(t, got.Days.On(time.Tuesday))

	byName, err := repo.GetByName(ctx, "Gimnasio")
	require.NoError(t, err)
	require.Equal(t, cfg.ID, byName.ID)

	_, err = repo.GetByName(ctx, "gimnasio")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestRecurrenceRepository_UniqueName(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecurrenceRepository(db)

	first := &recurrence.Config{Name: "Natación", PreferredTime: recurrence.DefaultPreferredTime}
	require.NoError(t, repo.Create(ctx, first))

	dup := &recurrence.Config{Name: "Natación", PreferredTime: recurrence.DefaultPreferredTime}
	require.Equal(t, repository.ErrConflict, repo.Create(ctx, dup))

	other := &recurrence.Config{Name: "Yoga", PreferredTime: recurrence.DefaultPreferredTime}
	require.NoError(t, repo.Create(ctx, other))
	other.Name = "Natación"
	require.Equal(t, repository.ErrConflict, repo.Update(ctx, other))
}

func TestRecurrenceRepository_ListUpdateDelete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecurrenceRepository(db)

	for _, cfg := range recurrence.BuiltIns() {
		cfg := cfg
		require.NoError(t, repo.Create(ctx, &cfg))
	}
	custom := &recurrence.Config{Name: "Gimnasio", Days: recurrence.MondayToSaturday, PreferredTime: recurrence.DefaultPreferredTime, Enabled: true}
	require.NoError(t, repo.Create(ctx, custom))

	configs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 3)
	require.Equal(t, activity.SourceCrossFitDB, configs[0].Name)
	require.Equal(t, activity.SourceN8, configs[1].Name)
	require.True(t, configs[0].BuiltIn)
	require.Equal(t, recurrence.MondayToSaturday, configs[0].Days)

	custom.Enabled = false
	require.NoError(t, repo.Update(ctx, custom))
	got, err := repo.Get(ctx, custom.ID)
	require.NoError(t, err)
	require.False(t, got.Enabled)

	require.NoError(t, repo.Delete(ctx, custom.ID))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, custom.ID))
	require.Equal(t, repository.ErrNotFound, repo.Update(ctx, custom))
}

func TestDaysMask(t *testing.T) {
	days := recurrence.WeekdaysOf(time.Sunday, time.Wednesday, time.Saturday)
	mask := daysMask(days)
	require.Equal(t, int64(1|1<<3|1<<6), mask)
	require.Equal(t, days, daysFromMask(mask))
}
