package crawl

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog-sync/core/database"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/storage"
	"catalog-sync/core/storage/mocks"
	"catalog-sync/feature/catalog/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testConfig = Config{
	Roots:            []string{"/Products"},
	ExcludedFolders:  []string{"Old Styles"},
	Extensions:       []string{".jpg", ".png", ".psd"},
	ReservedSegments: []string{".dropbox.cache"},
	HiddenPrefix:     ".",
}

func newTestCrawler(t *testing.T, cfg Config) (*Crawler, *store.Registry) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	reg := store.NewRegistry(db)
	return NewCrawler(reg, cfg, zaptest.NewLogger(t)), reg
}

func stamped(e storage.Entry) storage.Entry {
	e.ServerModified = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return e
}

func listing(entries ...storage.Entry) *storage.ListResult {
	for i := range entries {
		entries[i] = stamped(entries[i])
	}
	return &storage.ListResult{Entries: entries}
}

func TestCrawler_Pagination(t *testing.T) {
	crawler, _ := newTestCrawler(t, testConfig)
	client := new(mocks.Client)

	client.On("ListFolder", mock.Anything, "/Products", true).Return(&storage.ListResult{
		Entries: []storage.Entry{file("id:1", "/Products/A.jpg")},
		Cursor:  "c1",
		HasMore: true,
	}, nil)
	client.On("ListFolderContinue", mock.Anything, "c1").Return(&storage.ListResult{
		Entries: []storage.Entry{file("id:2", "/Products/B.jpg"), {Tag: storage.TagFolder, ID: "id:f", Path: "/Products/Sub"}},
		Cursor:  "c2",
		HasMore: false,
	}, nil)

	snapshot, err := crawler.Snapshot(context.Background(), client)
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
	client.AssertExpectations(t)
}

func TestCrawler_OverlappingRootsKeepOneRow(t *testing.T) {
	cfg := testConfig
	cfg.Roots = []string{"/Products", "/Products/Rings"}
	crawler, _ := newTestCrawler(t, cfg)
	client := new(mocks.Client)

	client.On("ListFolder", mock.Anything, "/Products", true).Return(listing(file("id:1", "/Products/Rings/A.jpg")), nil)
	client.On("ListFolder", mock.Anything, "/Products/Rings", true).Return(listing(file("id:1", "/Products/Rings/A.jpg")), nil)

	res, err := crawler.Run(context.Background(), client, reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
}

func TestCrawler_IdempotentAndPreservesLinks(t *testing.T) {
	crawler, reg := newTestCrawler(t, testConfig)
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("ListFolder", mock.Anything, "/Products", true).Return(listing(
		file("id:1", "/Products/ABC6.jpg"),
		file("id:2", "/Products/XY9-6MM.jpg"),
		file("id:3", "/Products/notes.txt"),
	), nil)

	first, err := crawler.Run(ctx, client, reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 2}, *first)
	assert.Equal(t, 2, first.Items())

	index, err := reg.LoadIndex(ctx)
	require.NoError(t, err)
	require.NoError(t, reg.SetShareURL(ctx, index["id:1"].ID, "https://dl.example/abc6"))

	second, err := crawler.Run(ctx, client, reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 2, second.Updated)
	assert.Equal(t, 0, second.Changed, "an unchanged tree produces no content changes")
	assert.Equal(t, 0, second.Deleted)

	index, err = reg.LoadIndex(ctx)
	require.NoError(t, err)
	require.NotNil(t, index["id:1"].ShareURL)
	assert.Equal(t, "https://dl.example/abc6", *index["id:1"].ShareURL)
}

func TestCrawler_ExcludedFolderDeletesRow(t *testing.T) {
	crawler, reg := newTestCrawler(t, Config{
		Roots:      []string{"/Products"},
		Extensions: []string{".jpg"},
	})
	ctx := context.Background()

	before := new(mocks.Client)
	before.On("ListFolder", mock.Anything, "/Products", true).Return(listing(
		file("id:1", "/Products/Old Styles/foo.jpg"),
		file("id:2", "/Products/bar.jpg"),
	), nil)
	_, err := crawler.Run(ctx, before, reconcile.Options{})
	require.NoError(t, err)

	crawler.filter = newFilter(Config{Extensions: []string{".jpg"}, ExcludedFolders: []string{"Old Styles"}})
	res, err := crawler.Run(ctx, before, reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Items())

	index, err := reg.LoadIndex(ctx)
	require.NoError(t, err)
	assert.NotContains(t, index, "id:1")
	assert.Contains(t, index, "id:2")
}

func TestCrawler_ExcludedFolderInDecomposedForm(t *testing.T) {
	crawler, reg := newTestCrawler(t, Config{
		Roots:      []string{"/Products"},
		Extensions: []string{".jpg"},
	})
	ctx := context.Background()

	client := new(mocks.Client)
	client.On("ListFolder", mock.Anything, "/Products", true).Return(listing(
		file("id:1", "/Products/A\u0308lte Styles/foo.jpg"),
		file("id:2", "/Products/bar.jpg"),
	), nil)
	_, err := crawler.Run(ctx, client, reconcile.Options{})
	require.NoError(t, err)

	index, err := reg.LoadIndex(ctx)
	require.NoError(t, err)
	require.Contains(t, index, "id:1")
	assert.Equal(t, "/Products/\u00c4lte Styles/foo.jpg", index["id:1"].Path)

	crawler.filter = newFilter(Config{Extensions: []string{".jpg"}, ExcludedFolders: []string{"\u00c4lte"}})
	res, err := crawler.Run(ctx, client, reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)

	index, err = reg.LoadIndex(ctx)
	require.NoError(t, err)
	assert.NotContains(t, index, "id:1")
	assert.Contains(t, index, "id:2")
}

func TestCrawler_ChangedContent(t *testing.T) {
	crawler, reg := newTestCrawler(t, testConfig)
	ctx := context.Background()

	v1 := new(mocks.Client)
	v1.On("ListFolder", mock.Anything, "/Products", true).Return(listing(file("id:1", "/Products/A.jpg")), nil)
	_, err := crawler.Run(ctx, v1, reconcile.Options{})
	require.NoError(t, err)

	v2 := new(mocks.Client)
	v2.On("ListFolder", mock.Anything, "/Products", true).Return(listing(file("id:1", "/Products/Rings/A-renamed.png")), nil)
	res, err := crawler.Run(ctx, v2, reconcile.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Changed)

	index, err := reg.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/Products/Rings/A-renamed.png", index["id:1"].Path)
	assert.Equal(t, ".png", index["id:1"].Extension)
}

func TestCrawler_DryRun(t *testing.T) {
	crawler, reg := newTestCrawler(t, testConfig)
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("ListFolder", mock.Anything, "/Products", true).Return(listing(file("id:1", "/Products/A.jpg")), nil)

	res, err := crawler.Run(ctx, client, reconcile.Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Inserted)

	index, err := reg.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Empty(t, index)
}

func TestCrawler_ListingErrorAborts(t *testing.T) {
	crawler, reg := newTestCrawler(t, testConfig)
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("ListFolder", mock.Anything, "/Products", true).Return(&storage.ListResult{
		Entries: []storage.Entry{stamped(file("id:1", "/Products/A.jpg"))},
		Cursor:  "c1",
		HasMore: true,
	}, nil)
	client.On("ListFolderContinue", mock.Anything, "c1").Return(nil, errors.New("rate limited"))

	_, err := crawler.Run(ctx, client, reconcile.Options{})
	assert.ErrorContains(t, err, "failed to continue listing /Products: rate limited")

	index, err := reg.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Empty(t, index, "nothing is written when the listing fails")
}
