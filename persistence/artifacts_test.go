package persistence

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/tunecouncil/recommend"
)

func TestSessionStampSortsChronologically(t *testing.T) {
	earlier := SessionStamp(time.Date(2026, 3, 9, 8, 5, 0, 0, time.UTC))
	later := SessionStamp(time.Date(2026, 3, 9, 14, 30, 59, 0, time.UTC))
	assert.Equal(t, "2026_03_09_08_05_00", earlier)
	assert.Less(t, earlier, later)
}

func sampleResult() *recommend.ProviderResult {
	return &recommend.ProviderResult{
		Provider: recommend.ProviderAnthropic,
		Recommendations: []recommend.Recommendation{
			{Rank: 1, SongTitle: "Mirrors", Artist: "Justin Timberlake", Album: "The 20/20 Experience", Year: 2013, Reason: "fits"},
		},
		CapturedAt: time.Date(2026, 3, 9, 8, 5, 0, 0, time.UTC),
	}
}

func TestSaveProviderResultRoundTrips(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir(), "2026_03_09_08_05_00")
	require.NoError(t, err)

	require.NoError(t, store.SaveProviderResult(sampleResult()))

	data, err := os.ReadFile(filepath.Join(store.Dir(), "anthropic_response.json"))
	require.NoError(t, err)
	var decoded recommend.ProviderResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, recommend.ProviderAnthropic, decoded.Provider)
	assert.Equal(t, "Mirrors", decoded.Recommendations[0].SongTitle)
}

func TestSaveProviderResultIsWriteOnce(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir(), "2026_03_09_08_05_00")
	require.NoError(t, err)

	require.NoError(t, store.SaveProviderResult(sampleResult()))
	err = store.SaveProviderResult(sampleResult())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestSaveConsensusWritesRankedTable(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir(), "2026_03_09_08_05_00")
	require.NoError(t, err)

	entries := []recommend.ConsensusEntry{
		{Key: recommend.Key{SongTitle: "Mirrors", Artist: "Justin Timberlake", Album: "The 20/20 Experience", Year: 2013}, TotalPoints: 27},
		{Key: recommend.Key{SongTitle: "Blinding Lights", Artist: "The Weeknd", Album: "After Hours", Year: 2020}, TotalPoints: 19},
	}
	path, err := store.SaveConsensus(entries)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir(), "final_recommendations_2026_03_09_08_05_00.csv"), path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"song_title", "artist", "album", "year", "total_points"}, records[0])
	assert.Equal(t, []string{"Mirrors", "Justin Timberlake", "The 20/20 Experience", "2013", "27"}, records[1])

	// Consensus is write-once too.
	_, err = store.SaveConsensus(entries)
	require.Error(t, err)
}
