package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/narou/internal/storage"
)

func newTestBleveEngine(t *testing.T, store *storage.Store) (*BleveEngine, string) {
	t.Helper()
	idxPath := filepath.Join(t.TempDir(), "index", "narou.bleve")
	eng, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng, idxPath
}

func TestBleveEngineIndexesAndSearches(t *testing.T) {
	eng, idxPath := newTestBleveEngine(t, seededStore(t))

	count, err := eng.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	res, err := eng.Search("Golang", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res), 1)
	assert.Equal(t, "Golang Tips", res[0].Document.Title)
	assert.Equal(t, storage.KindBlog, res[0].Document.Kind)
	assert.Equal(t, alice.UserID, res[0].Document.UserID)

	res, err = eng.Search("bleve", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res), 1)
	assert.Equal(t, "blog:12345:12", res[0].Document.ID)

	res, err = eng.Search("journey", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "https://ncode.syosetu.com/n1234ab/", res[0].Document.Link)

	fi, err := os.Stat(idxPath)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestBleveEngine_JapaneseTitles(t *testing.T) {
	eng, _ := newTestBleveEngine(t, seededStore(t))

	res, err := eng.Search("魔法", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res), 1)
	assert.Equal(t, "魔法使いの旅", res[0].Document.Title)
}

func TestBleveEngine_ShortQuery(t *testing.T) {
	eng, _ := newTestBleveEngine(t, seededStore(t))

	res, err := eng.Search(" a ", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestBleveEngine_OnArchivedReplacesSnapshot(t *testing.T) {
	store := seededStore(t)
	eng, _ := newTestBleveEngine(t, store)

	blog := aliceBlog()
	blog.Entries = blog.Entries[:1]
	require.NoError(t, store.SaveBlog(blog, time.Now()))
	eng.OnArchived(storage.KindBlog, alice.UserID, BlogDocuments(blog))

	count, err := eng.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	res, err := eng.Search("golang", 10)
	require.NoError(t, err)
	assert.Empty(t, res, "entries dropped from the snapshot leave the index")

	// Bob's novels are untouched by Alice's blog update.
	res, err = eng.Search("journey", 10)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestBleveEngine_OnUserDeleted(t *testing.T) {
	eng, _ := newTestBleveEngine(t, seededStore(t))

	eng.OnUserDeleted(bob.UserID)

	count, err := eng.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	res, err := eng.Search("journey", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestBleveEngine_Reopen(t *testing.T) {
	store := seededStore(t)
	idxPath := filepath.Join(t.TempDir(), "narou.bleve")

	first, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	defer second.Close()

	count, err := second.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 4, count, "reindexing an existing index does not duplicate documents")
}

func TestBleveEngine_ReopenDropsDeletedSnapshots(t *testing.T) {
	store := seededStore(t)
	idxPath := filepath.Join(t.TempDir(), "narou.bleve")

	first, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Deleted while the index was closed, so no listener saw it.
	require.NoError(t, store.Delete(bob.UserID))

	second, err := NewBleveEngine(store, idxPath)
	require.NoError(t, err)
	defer second.Close()

	count, err := second.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	res, err := second.Search("journey", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestBleveEngine_UnlimitedMatchesScan(t *testing.T) {
	store := seededStore(t)
	eng, _ := newTestBleveEngine(t, store)

	// Both of Alice's entries carry the feed title.
	indexed, err := eng.Search("writes", 0)
	require.NoError(t, err)
	scanned, err := NewEngine(store).Search("writes", 0)
	require.NoError(t, err)

	assert.Len(t, indexed, 2)
	assert.Len(t, scanned, 2)
}
