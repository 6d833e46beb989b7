package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T) *SessionCatalog {
	t.Helper()
	catalog, err := OpenSessionCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })
	return catalog
}

func TestCatalogRecordAndList(t *testing.T) {
	catalog := openTestCatalog(t)
	ctx := context.Background()

	older := SessionRecord{
		Stamp:     "2026_03_08_20_00_00",
		Prompt:    "genre: jazz",
		Added:     18,
		Failed:    2,
		CreatedAt: time.Date(2026, 3, 8, 20, 0, 0, 0, time.UTC),
	}
	newer := SessionRecord{
		Stamp:      "2026_03_09_08_05_00",
		Prompt:     "genre: synthwave",
		PlaylistID: "PLxyz",
		Added:      20,
		CreatedAt:  time.Date(2026, 3, 9, 8, 5, 0, 0, time.UTC),
	}
	require.NoError(t, catalog.Record(ctx, older))
	require.NoError(t, catalog.Record(ctx, newer))

	records, err := catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2026_03_09_08_05_00", records[0].Stamp)
	assert.Equal(t, "PLxyz", records[0].PlaylistID)
	assert.Equal(t, 18, records[1].Added)
	assert.Equal(t, 2, records[1].Failed)
}

func TestCatalogRejectsDuplicateStamp(t *testing.T) {
	catalog := openTestCatalog(t)
	ctx := context.Background()

	rec := SessionRecord{Stamp: "2026_03_09_08_05_00", Prompt: "p", CreatedAt: time.Now()}
	require.NoError(t, catalog.Record(ctx, rec))
	assert.Error(t, catalog.Record(ctx, rec))
}

func TestCatalogEmptyList(t *testing.T) {
	catalog := openTestCatalog(t)
	records, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
