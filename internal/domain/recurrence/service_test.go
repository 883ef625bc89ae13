package recurrence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/repository"
	"github.com/wodplus/wodplus/internal/repository/mocks"
)

func TestRecurrenceService_EnsureBuiltInsSeedsMissing(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.RecurrenceRepository{}
	existing := recurrence.BuiltIns()[0]
	existing.ID = 1
	repo.On("GetByName", ctx, activity.SourceCrossFitDB).Return(&existing, nil)
	repo.On("GetByName", ctx, activity.SourceN8).Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(cfg *recurrence.Config) bool {
		return cfg.Name == activity.SourceN8 && cfg.BuiltIn && cfg.Enabled
	})).Return(nil).Once()

	svc := recurrence.NewService(repo, nil, nil)
	require.NoError(t, svc.EnsureBuiltIns(ctx))
	repo.AssertExpectations(t)
}

func TestRecurrenceService_SaveCreatesCustom(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.RecurrenceRepository{}
	repo.On("GetByName", ctx, "Gimnasio").Return(nil, repository.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*recurrence.Config")).Run(func(args mock.Arguments) {
		args.Get(1).(*recurrence.Config).ID = 3
	}).Return(nil)

	svc := recurrence.NewService(repo, nil, nil)
	got, err := svc.Save(ctx, recurrence.Config{
		Name:          "  Gimnasio ",
		Days:          recurrence.WeekdaysOf(time.Monday),
		PreferredTime: recurrence.DefaultPreferredTime,
		Enabled:       true,
		BuiltIn:       true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), got.ID)
	require.Equal(t, "Gimnasio", got.Name)
	require.False(t, got.BuiltIn)
}

func TestRecurrenceService_SaveRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.RecurrenceRepository{}
	repo.On("GetByName", ctx, activity.SourceN8).Return(&recurrence.Config{ID: 2, Name: activity.SourceN8}, nil)

	svc := recurrence.NewService(repo, nil, nil)
	_, err := svc.Save(ctx, recurrence.Config{Name: activity.SourceN8, PreferredTime: recurrence.DefaultPreferredTime})
	require.ErrorIs(t, err, recurrence.ErrDuplicateName)
}

func TestRecurrenceService_BuiltInProtection(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.RecurrenceRepository{}
	builtIn := recurrence.BuiltIns()[1]
	builtIn.ID = 2
	repo.On("Get", ctx, int64(2)).Return(&builtIn, nil)

	svc := recurrence.NewService(repo, nil, nil)

	renamed := builtIn
	renamed.Name = "N9"
	_, err := svc.Save(ctx, renamed)
	require.ErrorIs(t, err, recurrence.ErrBuiltInProtected)

	require.ErrorIs(t, svc.Delete(ctx, 2), recurrence.ErrBuiltInProtected)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRecurrenceService_SaveUpdatesBuiltInDays(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.RecurrenceRepository{}
	builtIn := recurrence.BuiltIns()[1]
	builtIn.ID = 2
	repo.On("Get", ctx, int64(2)).Return(&builtIn, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(cfg *recurrence.Config) bool {
		return cfg.BuiltIn && cfg.Days.On(time.Sunday)
	})).Return(nil).Once()

	svc := recurrence.NewService(repo, nil, nil)
	edit := builtIn
	edit.Days = recurrence.WeekdaysOf(time.Sunday)
	edit.BuiltIn = false
	got, err := svc.Save(ctx, edit)
	require.NoError(t, err)
	require.True(t, got.BuiltIn)
	repo.AssertExpectations(t)
}

func TestRecurrenceService_ToggleEnabled(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.RecurrenceRepository{}
	repo.On("Get", ctx, int64(5)).Return(&recurrence.Config{ID: 5, Name: "Yoga", Enabled: true}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	svc := recurrence.NewService(repo, nil, nil)
	got, err := svc.ToggleEnabled(ctx, 5)
	require.NoError(t, err)
	require.False(t, got.Enabled)

	repo2 := &mocks.RecurrenceRepository{}
	repo2.On("Get", ctx, int64(6)).Return(nil, repository.ErrNotFound)
	_, err = recurrence.NewService(repo2, nil, nil).ToggleEnabled(ctx, 6)
	require.ErrorIs(t, err, recurrence.ErrConfigNotFound)
}

func TestRecurrenceService_PreferredTime(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.RecurrenceRepository{}
	at := activity.TimeOfDay{Hour: 6, Minute: 30}
	repo.On("GetByName", ctx, "Yoga").Return(&recurrence.Config{Name: "Yoga", PreferredTime: at}, nil)
	repo.On("GetByName", ctx, "Nada").Return(nil, repository.ErrNotFound)

	svc := recurrence.NewService(repo, nil, nil)
	got, ok, err := svc.PreferredTime(ctx, "Yoga")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, at, got)

	_, ok, err = svc.PreferredTime(ctx, "Nada")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRecurrenceService_Selectable(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.RecurrenceRepository{}
	activities := &mocks.ActivityRepository{}
	repo.On("List", ctx).Return(recurrence.BuiltIns()[1:], nil)
	activities.On("List", ctx, activity.ListOptions{}).Return([]activity.Activity{
		scrapedOn(monday, activity.SourceN8),
		scrapedOn(monday, activity.SourceCrossFitDB),
	}, nil)

	svc := recurrence.NewService(repo, activities, nil)
	got, err := svc.Selectable(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, activity.SourceN8, got[0].SourceName)
}
