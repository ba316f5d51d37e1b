package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/benchratio/pkg/cache"
	"github.com/Sumatoshi-tech/benchratio/pkg/catalog"
	"github.com/Sumatoshi-tech/benchratio/pkg/store"
)

func TestCachedSource_HitsAndInvalidates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cat := smallCatalog()
	dir := store.NewDirSource(root, cat)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "filestore"), 0o755))

	path, err := dir.Path(catalog.CategoryFilestore, catalog.ActionFWrite)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0o600))

	lru := cache.NewLRU(0)
	src := store.NewCachedSource(dir, lru)

	first, err := src.Read(catalog.CategoryFilestore, catalog.ActionFWrite)
	require.NoError(t, err)

	second, err := src.Read(catalog.CategoryFilestore, catalog.ActionFWrite)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), lru.Stats().Hits)

	updated := sampleReport + "\"2048\" 60\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	third, err := src.Read(catalog.CategoryFilestore, catalog.ActionFWrite)
	require.NoError(t, err)
	assert.Equal(t, updated, string(third))
	assert.Equal(t, 1, lru.Stats().Entries)
}

func TestCachedSource_MissingReport(t *testing.T) {
	t.Parallel()

	src := store.NewCachedSource(store.NewDirSource(t.TempDir(), smallCatalog()), cache.NewLRU(0))

	_, err := src.Read(catalog.CategoryNetApp, catalog.ActionFRead)
	require.ErrorIs(t, err, store.ErrSourceNotFound)
}
