package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"catalog-sync/feature/catalog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestRuns_Lifecycle(t *testing.T) {
	runs := NewRuns(newTestDB(t))
	ctx := context.Background()
	started := time.Now().UTC().Add(-time.Minute)

	run := &models.SyncRun{SyncType: models.SyncCrawl, Operator: "alice", Status: models.StatusRunning, StartedAt: started}
	require.NoError(t, runs.Create(ctx, run))
	require.NotZero(t, run.ID)

	done := time.Now().UTC()
	require.NoError(t, runs.Finish(ctx, run.ID, models.StatusSuccess, done, 60, 12, nil))

	got, err := runs.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, got.Status)
	assert.Equal(t, 12, got.ItemsSynced)
	require.NotNil(t, got.CompletedAt)
	require.NotNil(t, got.DurationSeconds)
	assert.Equal(t, 60.0, *got.DurationSeconds)

	msg := "late"
	err = runs.Finish(ctx, run.ID, models.StatusFailed, done, 61, 0, &msg)
	assert.ErrorIs(t, err, ErrNotFound, "a finished run cannot transition again")

	_, err = runs.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRuns_LatestAndRecent(t *testing.T) {
	runs := NewRuns(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	latest, err := runs.Latest(ctx, models.SyncLinks)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for i, st := range []models.SyncType{models.SyncCrawl, models.SyncLinks, models.SyncCrawl} {
		require.NoError(t, runs.Create(ctx, &models.SyncRun{
			SyncType: st, Operator: "ops", Status: models.StatusRunning,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	latest, err = runs.Latest(ctx, models.SyncCrawl)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, uint(3), latest.ID)

	all, err := runs.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint(3), all[0].ID)

	crawls, err := runs.Recent(ctx, models.SyncCrawl, 1)
	require.NoError(t, err)
	require.Len(t, crawls, 1)
	assert.Equal(t, uint(3), crawls[0].ID)
}

func TestRuns_CreateError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `sync_runs`")).WillReturnError(assert.AnError)

	err = NewRuns(db).Create(context.Background(), &models.SyncRun{SyncType: models.SyncMapping, Status: models.StatusRunning})
	assert.ErrorContains(t, err, "failed to create sku_mapping run")
	assert.NoError(t, mock.ExpectationsWereMet())
}
