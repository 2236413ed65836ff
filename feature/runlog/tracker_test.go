package runlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog-sync/core/database"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestTracker(t *testing.T) (*Tracker, *store.Runs) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	runs := store.NewRuns(db)
	return NewTracker(runs, zaptest.NewLogger(t)), runs
}

func TestTracker_StartComplete(t *testing.T) {
	tracker, runs := newTestTracker(t)
	ctx := context.Background()

	id, startedAt, err := tracker.Start(ctx, "alice", models.SyncCrawl)
	require.NoError(t, err)

	run, err := runs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, run.Status)
	assert.Nil(t, run.CompletedAt)
	assert.Nil(t, run.DurationSeconds)

	tracker.now = func() time.Time { return startedAt.Add(90 * time.Second) }
	require.NoError(t, tracker.Complete(ctx, id, startedAt, 7))

	run, err = runs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, run.Status)
	assert.Equal(t, 7, run.ItemsSynced)
	require.NotNil(t, run.DurationSeconds)
	assert.InDelta(t, 90.0, *run.DurationSeconds, 0.001)
	require.NotNil(t, run.CompletedAt)
	assert.InDelta(t, 90.0, run.CompletedAt.Sub(run.StartedAt).Seconds(), 0.001)

	err = tracker.Fail(ctx, id, startedAt, "too late")
	assert.ErrorIs(t, err, ErrNotFound, "only one terminal transition is allowed")
}

func TestTracker_Fail(t *testing.T) {
	tracker, runs := newTestTracker(t)
	ctx := context.Background()

	id, startedAt, err := tracker.Start(ctx, "bob", models.SyncLinks)
	require.NoError(t, err)
	require.NoError(t, tracker.Fail(ctx, id, startedAt, "remote unavailable"))

	run, err := runs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, run.Status)
	require.NotNil(t, run.ErrorMessage)
	assert.Equal(t, "remote unavailable", *run.ErrorMessage)
}

func TestTracker_ForceFail(t *testing.T) {
	tracker, runs := newTestTracker(t)
	ctx := context.Background()

	t.Run("Running Run", func(t *testing.T) {
		id, startedAt, err := tracker.Start(ctx, "ops", models.SyncMapping)
		require.NoError(t, err)

		tracker.now = func() time.Time { return startedAt.Add(time.Hour) }
		defer func() { tracker.now = func() time.Time { return time.Now().UTC() } }()

		require.NoError(t, tracker.ForceFail(ctx, id, "process crashed"))

		run, err := runs.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, run.Status)
		assert.True(t, run.StartedAt.Equal(startedAt), "started_at is preserved")
		require.NotNil(t, run.DurationSeconds)
		assert.InDelta(t, 3600.0, *run.DurationSeconds, 0.001)
	})

	t.Run("Finished Run", func(t *testing.T) {
		id, startedAt, err := tracker.Start(ctx, "ops", models.SyncMapping)
		require.NoError(t, err)
		require.NoError(t, tracker.Complete(ctx, id, startedAt, 1))

		err = tracker.ForceFail(ctx, id, "stuck")
		assert.True(t, IsNotFound(err))
	})

	t.Run("Unknown Run", func(t *testing.T) {
		err := tracker.ForceFail(ctx, 4242, "stuck")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTracker_Status(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	status, err := tracker.Status(ctx, models.SyncCrawl)
	require.NoError(t, err)
	assert.False(t, status.IsRunning)
	assert.Nil(t, status.RunID)

	id, startedAt, err := tracker.Start(ctx, "carol", models.SyncCrawl)
	require.NoError(t, err)

	status, err = tracker.Status(ctx, models.SyncCrawl)
	require.NoError(t, err)
	assert.True(t, status.IsRunning)
	require.NotNil(t, status.RunID)
	assert.Equal(t, id, *status.RunID)
	assert.Equal(t, "carol", *status.Operator)

	require.NoError(t, tracker.Complete(ctx, id, startedAt, 0))
	status, err = tracker.Status(ctx, models.SyncCrawl)
	require.NoError(t, err)
	assert.False(t, status.IsRunning)
	assert.Equal(t, id, *status.RunID)
}

func TestTracker_Track(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		tracker, runs := newTestTracker(t)
		items, err := tracker.Track(ctx, "ops", models.SyncCrawl, func(context.Context) (int, error) {
			return 5, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 5, items)

		recent, err := runs.Recent(ctx, models.SyncCrawl, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, models.StatusSuccess, recent[0].Status)
		assert.Equal(t, 5, recent[0].ItemsSynced)
	})

	t.Run("Error", func(t *testing.T) {
		tracker, _ := newTestTracker(t)
		boom := errors.New("listing failed")
		_, err := tracker.Track(ctx, "ops", models.SyncCrawl, func(context.Context) (int, error) {
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)

		recent, err := tracker.Recent(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, models.StatusFailed, recent[0].Status)
		require.NotNil(t, recent[0].ErrorMessage)
		assert.Equal(t, "listing failed", *recent[0].ErrorMessage)
	})

	t.Run("Panic", func(t *testing.T) {
		tracker, runs := newTestTracker(t)
		_, err := tracker.Track(ctx, "ops", models.SyncLinks, func(context.Context) (int, error) {
			panic("nil map")
		})
		assert.ErrorContains(t, err, "dropbox_links run panicked: nil map")

		recent, err := runs.Recent(ctx, models.SyncLinks, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, models.StatusFailed, recent[0].Status)
	})
}
