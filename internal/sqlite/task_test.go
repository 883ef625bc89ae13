package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wodplus/wodplus/internal/reminder"
	"github.com/wodplus/wodplus/internal/repository"
)

func newTask(activityID int64, fireAt time.Time, token string) reminder.Task {
	return reminder.Task{
		Key:        reminder.Key(activityID),
		ActivityID: activityID,
		FireAt:     fireAt,
		Token:      token,
		CreatedAt:  fireAt.Add(-time.Hour),
	}
}

func TestTaskRepository_RegisterReplaces(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	fire := time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Register(ctx, newTask(7, fire, "a")))
	require.NoError(t, repo.Register(ctx, newTask(7, fire.Add(time.Hour), "b")))

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "wod_reminder_7", tasks[0].Key)
	require.Equal(t, "b", tasks[0].Token)
	require.True(t, fire.Add(time.Hour).Equal(tasks[0].FireAt))
}

func TestTaskRepository_NextDueAndCancel(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	_, err := repo.NextDue(ctx)
	require.Equal(t, repository.ErrNotFound, err)

	fire := time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Register(ctx, newTask(1, fire.Add(2*time.Hour), "late")))
	require.NoError(t, repo.Register(ctx, newTask(2, fire, "early")))

	next, err := repo.NextDue(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), next.ActivityID)

	require.NoError(t, repo.Cancel(ctx, reminder.Key(2)))
	require.NoError(t, repo.Cancel(ctx, reminder.Key(2)))

	next, err = repo.NextDue(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), next.ActivityID)

	_, err = repo.Get(ctx, reminder.Key(2))
	require.Equal(t, repository.ErrNotFound, err)
}

func TestTaskRepository_ClaimChecksToken(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	fire := time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Register(ctx, newTask(3, fire, "current")))

	ok, err := repo.Claim(ctx, reminder.Key(3), "stale")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.Claim(ctx, reminder.Key(3), "current")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Claim(ctx, reminder.Key(3), "current")
	require.NoError(t, err)
	require.False(t, ok)
}
