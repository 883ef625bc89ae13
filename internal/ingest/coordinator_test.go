package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/ingest"
	"github.com/wodplus/wodplus/internal/repository/mocks"
)

// memStore keeps activities in a slice and applies Replace atomically.
type memStore struct {
	rows    []activity.Activity
	nextID  int64
	failOn  int
	inserts int
}

func (m *memStore) List(_ context.Context, opts activity.ListOptions) ([]activity.Activity, error) {
	var out []activity.Activity
	for _, a := range m.rows {
		if opts.SelectedOnly && !a.Selected {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) Replace(ctx context.Context, fn func(w activity.Writer) error) error {
	staged := &memWriter{store: m, rows: append([]activity.Activity(nil), m.rows...), nextID: m.nextID}
	if err := fn(staged); err != nil {
		return err
	}
	m.rows = staged.rows
	m.nextID = staged.nextID
	return nil
}

type memWriter struct {
	store  *memStore
	rows   []activity.Activity
	nextID int64
}

func (w *memWriter) DeleteAll(context.Context) error {
	w.rows = nil
	return nil
}

func (w *memWriter) InsertBatch(_ context.Context, activities []activity.Activity) error {
	w.store.inserts++
	if w.store.failOn == w.store.inserts {
		return errors.New("disk I/O error")
	}
	for i := range activities {
		w.nextID++
		activities[i].ID = w.nextID
		w.rows = append(w.rows, activities[i])
	}
	return nil
}

type staticConfigs []recurrence.Config

func (s staticConfigs) List(context.Context) ([]recurrence.Config, error) {
	return s, nil
}

type stubFetcher struct {
	raw string
	err error
}

func (f stubFetcher) Fetch(context.Context) (string, error) {
	return f.raw, f.err
}

type countingNotifier struct{ n int }

func (c *countingNotifier) NotifyChanged(context.Context) { c.n++ }

var today = time.Date(2025, time.March, 12, 8, 0, 0, 0, time.UTC)

func clock() ingest.Option {
	return ingest.WithClock(func() time.Time { return today })
}

const mondayPayload = `JSON_DATA_START
{
  "wods_n8": [{"fecha_iso": "2025-03-10", "dia_semana": "Lunes", "contenido": "Cindy", "contenido_html": ""}],
  "wods_crossfitdb": []
}
JSON_DATA_END`

func gimnasioMondays() staticConfigs {
	return append(staticConfigs(recurrence.BuiltIns()), recurrence.Config{
		Name:          "Gimnasio",
		Days:          recurrence.WeekdaysOf(time.Monday),
		PreferredTime: recurrence.DefaultPreferredTime,
		Enabled:       true,
	})
}

func TestCoordinator_IngestWithCustomConfig(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	changes := &countingNotifier{}
	c := ingest.NewCoordinator(store, gimnasioMondays(), nil, clock(), ingest.WithChangeNotifier(changes))

	n, err := c.Ingest(ctx, mondayPayload)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, store.rows, 2)
	require.Equal(t, activity.SourceN8, store.rows[0].SourceName)
	require.Equal(t, "Gimnasio", store.rows[1].SourceName)
	require.Equal(t, store.rows[0].Date, store.rows[1].Date)
	require.Equal(t, 1, changes.n)
}

func TestCoordinator_FallbackToSamples(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	c := ingest.NewCoordinator(store, staticConfigs(recurrence.BuiltIns()), nil, clock())

	res, err := c.Run(ctx, "scraper crashed: timeout")
	require.NoError(t, err)
	require.True(t, res.Fallback)
	require.Equal(t, 14, res.Total())

	dates := map[activity.Date]bool{}
	for _, a := range store.rows {
		dates[a.Date] = true
	}
	require.Len(t, dates, 7)
	require.True(t, dates[activity.DateOf(today)])
}

func TestCoordinator_ReversedMarkersFallBackToSamples(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	c := ingest.NewCoordinator(store, staticConfigs(recurrence.BuiltIns()), nil, clock())

	res, err := c.Run(ctx, "JSON_DATA_END {\"wods_n8\": []} JSON_DATA_START")
	require.NoError(t, err)
	require.True(t, res.Fallback)
	require.Len(t, store.rows, 14)
}

func TestCoordinator_ReplacesPreviousRows(t *testing.T) {
	ctx := context.Background()
	at := activity.TimeOfDay{Hour: 18}
	store := &memStore{
		rows:   []activity.Activity{{ID: 1, Date: activity.DateOf(today), SourceName: activity.SourceN8, Selected: true, Time: &at}},
		nextID: 1,
	}
	c := ingest.NewCoordinator(store, staticConfigs(recurrence.BuiltIns()), nil, clock())

	n, err := c.Ingest(ctx, mondayPayload)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, store.rows, 1)
	require.False(t, store.rows[0].Selected)
	require.NotEqual(t, int64(1), store.rows[0].ID)
}

func TestCoordinator_StoreFailureLeavesPreviousState(t *testing.T) {
	ctx := context.Background()
	previous := []activity.Activity{{ID: 1, Date: activity.DateOf(today), SourceName: activity.SourceN8}}
	store := &memStore{rows: previous, nextID: 1, failOn: 2}
	c := ingest.NewCoordinator(store, gimnasioMondays(), nil, clock())

	_, err := c.Ingest(ctx, mondayPayload)
	require.ErrorIs(t, err, ingest.ErrIngestFailed)
	require.Equal(t, previous, store.rows)
}

func TestCoordinator_EmptyPayloadKeepsStoredRows(t *testing.T) {
	ctx := context.Background()
	store := &memStore{rows: []activity.Activity{{ID: 1}}, nextID: 1}
	c := ingest.NewCoordinator(store, gimnasioMondays(), nil, clock())

	for _, raw := range []string{
		"JSON_DATA_START {broken JSON_DATA_END",
		`JSON_DATA_START {"wods_n8":[],"wods_crossfitdb":[{"dia_semana":"Lunes"}]} JSON_DATA_END`,
	} {
		res, err := c.Run(ctx, raw)
		require.NoError(t, err)
		require.False(t, res.Fallback)
		require.Zero(t, res.Total())
		require.Len(t, store.rows, 1)
	}
}

func TestCoordinator_Refresh(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}

	c := ingest.NewCoordinator(store, gimnasioMondays(), nil, clock(), ingest.WithFetcher(stubFetcher{raw: mondayPayload}))
	res, err := c.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Scraped)
	require.Equal(t, 1, res.Materialized)

	failing := ingest.NewCoordinator(store, gimnasioMondays(), nil, clock(), ingest.WithFetcher(stubFetcher{err: errors.New("exit status 1")}))
	_, err = failing.Refresh(ctx)
	require.ErrorIs(t, err, ingest.ErrFetchFailed)

	_, err = ingest.NewCoordinator(store, gimnasioMondays(), nil).Refresh(ctx)
	require.ErrorIs(t, err, ingest.ErrFetchFailed)
}

func TestCoordinator_UsesRepositoryWriter(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	writer := &mocks.ActivityWriter{}

	repo.On("List", ctx, activity.ListOptions{SelectedOnly: true}).Return([]activity.Activity{}, nil)
	repo.On("Replace", ctx, mock.Anything).Return(writer, nil)
	writer.On("DeleteAll", ctx).Return(nil).Once()
	writer.On("InsertBatch", ctx, mock.MatchedBy(func(rows []activity.Activity) bool {
		return len(rows) == 1 && rows[0].SourceName == activity.SourceN8
	})).Return(nil).Once()
	writer.On("InsertBatch", ctx, mock.MatchedBy(func(rows []activity.Activity) bool {
		return len(rows) == 1 && rows[0].SourceName == "Gimnasio"
	})).Return(nil).Once()

	c := ingest.NewCoordinator(repo, gimnasioMondays(), nil, clock())
	n, err := c.Ingest(ctx, mondayPayload)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	writer.AssertExpectations(t)
}
