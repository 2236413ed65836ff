package links

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"catalog-sync/core/database"
	"catalog-sync/core/storage"
	"catalog-sync/core/storage/mocks"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

var webExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

type fixture struct {
	db       *gorm.DB
	registry *store.Registry
	mappings *store.Mappings
	sleeps   []time.Duration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	require.NoError(t, db.Exec("CREATE TABLE inventory (id INTEGER PRIMARY KEY AUTOINCREMENT, sku TEXT)").Error)
	inv, err := store.NewInventory(db, "inventory", "sku")
	require.NoError(t, err)
	return &fixture{db: db, registry: store.NewRegistry(db), mappings: store.NewMappings(db, inv)}
}

func (f *fixture) provisioner(t *testing.T, batch int) *Provisioner {
	cfg := Config{
		BatchSize:              batch,
		Delay:                  time.Second,
		ErrorBackoff:           5 * time.Second,
		MaxConsecutiveFailures: 5,
		Extensions:             webExtensions,
	}
	return NewProvisioner(f.registry, f.mappings, cfg, zaptest.NewLogger(t)).
		WithSleeper(func(_ context.Context, d time.Duration) error {
			f.sleeps = append(f.sleeps, d)
			return nil
		})
}

func (f *fixture) seed(t *testing.T, names ...string) {
	t.Helper()
	var rows []models.FileEntry
	for _, name := range names {
		rows = append(rows, models.FileEntry{
			RemoteID:  "id:" + name,
			Path:      "/Products/" + name,
			Name:      name,
			NameNoExt: name[:len(name)-4],
			Extension: name[len(name)-4:],
		})
	}
	require.NoError(t, f.registry.Insert(context.Background(), rows))
}

func (f *fixture) links(t *testing.T) map[string]string {
	t.Helper()
	index, err := f.registry.LoadIndex(context.Background())
	require.NoError(t, err)
	out := map[string]string{}
	for id, row := range index {
		if row.ShareURL != nil {
			out[id] = *row.ShareURL
		}
	}
	return out
}

func TestProvisioner_CreatesLinks(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a.jpg", "b.png", "c.psd", "d.gif")
	client := new(mocks.Client)
	client.On("CreateSharedLink", mock.Anything, "/Products/a.jpg").Return("https://dl/a", nil)
	client.On("CreateSharedLink", mock.Anything, "/Products/b.png").Return("", &storage.LinkExistsError{Path: "/Products/b.png", URL: "https://dl/b-existing"})
	client.On("CreateSharedLink", mock.Anything, "/Products/d.gif").Return("https://dl/d", nil)

	p := f.provisioner(t, 2)
	missing, err := p.MissingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), missing)

	res, err := p.Run(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 3, res.LinksCreated)
	assert.Equal(t, map[string]string{
		"id:a.jpg": "https://dl/a",
		"id:b.png": "https://dl/b-existing",
		"id:d.gif": "https://dl/d",
	}, f.links(t))
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, f.sleeps)
	client.AssertNotCalled(t, "CreateSharedLink", mock.Anything, "/Products/c.psd")

	missing, err = p.MissingCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, missing)
}

func TestProvisioner_FailedRowNotRetriedInRun(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a.jpg", "b.jpg", "c.jpg")
	client := new(mocks.Client)
	client.On("CreateSharedLink", mock.Anything, "/Products/a.jpg").Return("", errors.New("path/not_found")).Once()
	client.On("CreateSharedLink", mock.Anything, "/Products/b.jpg").Return("https://dl/b", nil).Once()
	client.On("CreateSharedLink", mock.Anything, "/Products/c.jpg").Return("https://dl/c", nil).Once()

	res, err := f.provisioner(t, 2).Run(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 2, res.LinksCreated)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []time.Duration{5 * time.Second, time.Second, time.Second}, f.sleeps)
	client.AssertExpectations(t)
}

func TestProvisioner_SummaryReportsFailures(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a.jpg", "b.jpg")
	client := new(mocks.Client)
	client.On("CreateSharedLink", mock.Anything, "/Products/a.jpg").Return("", errors.New("path/not_found")).Once()
	client.On("CreateSharedLink", mock.Anything, "/Products/b.jpg").Return("https://dl/b", nil).Once()

	core, logs := observer.New(zapcore.InfoLevel)
	p := f.provisioner(t, 25)
	p.logger = zap.New(core)

	res, err := p.Run(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)

	done := logs.FilterMessage("Share link provisioning done").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, int64(1), fields["links_created"])
	assert.Equal(t, int64(1), fields["links_failed"])
}

func TestProvisioner_CircuitBreaker(t *testing.T) {
	f := newFixture(t)
	var names []string
	for i := range 8 {
		names = append(names, fmt.Sprintf("f%d.jpg", i))
	}
	f.seed(t, names...)

	client := new(mocks.Client)
	client.On("CreateSharedLink", mock.Anything, mock.Anything).Return("", errors.New("too_many_write_operations"))

	res, err := f.provisioner(t, 25).Run(context.Background(), client)
	assert.ErrorIs(t, err, ErrTooManyFailures)
	assert.ErrorContains(t, err, "5 in a row")
	assert.Zero(t, res.LinksCreated)
	client.AssertNumberOfCalls(t, "CreateSharedLink", 5)
}

func TestProvisioner_WholeBatchFails(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a.jpg", "b.jpg", "c.jpg")
	client := new(mocks.Client)
	client.On("CreateSharedLink", mock.Anything, mock.Anything).Return("", errors.New("internal"))

	_, err := f.provisioner(t, 2).Run(context.Background(), client)
	assert.ErrorIs(t, err, ErrBatchFailed)
	client.AssertNumberOfCalls(t, "CreateSharedLink", 2)
}

func TestProvisioner_UnauthorizedAbortsImmediately(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a.jpg", "b.jpg")
	client := new(mocks.Client)
	client.On("CreateSharedLink", mock.Anything, "/Products/a.jpg").
		Return("", fmt.Errorf("expired_access_token: %w", storage.ErrUnauthorized))

	_, err := f.provisioner(t, 25).Run(context.Background(), client)
	assert.ErrorIs(t, err, storage.ErrUnauthorized)
	client.AssertNumberOfCalls(t, "CreateSharedLink", 1)
	assert.Empty(t, f.sleeps)
}

func TestProvisioner_DeletesOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "a.jpg")
	require.NoError(t, f.db.Exec("INSERT INTO inventory (sku) VALUES ('KEEP')").Error)
	require.NoError(t, f.registry.Insert(ctx, []models.FileEntry{{RemoteID: "", Path: "", Name: "ghost.jpg", Extension: ".jpg"}}))
	_, err := f.mappings.Insert(ctx, []models.SkuImageMapping{
		{SKU: "KEEP", FileID: 1, MatchType: models.MatchContains, Confidence: 0.5},
		{SKU: "GONE", FileID: 1, MatchType: models.MatchContains, Confidence: 0.5},
	})
	require.NoError(t, err)

	client := new(mocks.Client)
	client.On("CreateSharedLink", mock.Anything, "/Products/a.jpg").Return("https://dl/a", nil)

	res, err := f.provisioner(t, 25).Run(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.OrphansDeleted)
	assert.Equal(t, 1, res.LinksCreated)
}

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), 0))
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
