// Package persistence stores per-session artifacts: one structured result
// file per provider, one consensus table per session, and a SQLite catalog
// of past sessions. Artifact files are write-once; nothing here appends.
package persistence

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lexcodex/tunecouncil/recommend"
)

// sessionTimestampLayout names artifact directories the way operators expect
// to sort them: lexicographic order equals chronological order.
const sessionTimestampLayout = "2006_01_02_15_04_05"

// SessionStamp renders the artifact naming stamp for a session start time.
func SessionStamp(t time.Time) string {
	return t.Format(sessionTimestampLayout)
}

// ArtifactStore writes the artifacts of a single session under
// <root>/<stamp>/. Files are created with O_EXCL so a second write for the
// same provider or consensus surfaces as an error instead of clobbering the
// audit trail.
type ArtifactStore struct {
	dir   string
	stamp string
}

// NewArtifactStore creates the session directory and returns the store.
func NewArtifactStore(root, stamp string) (*ArtifactStore, error) {
	dir := filepath.Join(root, stamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &ArtifactStore{dir: dir, stamp: stamp}, nil
}

// Dir returns the session artifact directory.
func (s *ArtifactStore) Dir() string { return s.dir }

// SaveProviderResult persists one provider's validated response as
// <provider>_response.json. Implements recommend.ArtifactSaver.
func (s *ArtifactStore) SaveProviderResult(result *recommend.ProviderResult) error {
	path := filepath.Join(s.dir, fmt.Sprintf("%s_response.json", result.Provider))
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeOnce(path, data)
}

// SaveConsensus persists the aggregated ranking as a CSV table named by the
// session stamp, mirroring the per-provider JSON artifacts.
func (s *ArtifactStore) SaveConsensus(entries []recommend.ConsensusEntry) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("final_recommendations_%s.csv", s.stamp))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create consensus file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"song_title", "artist", "album", "year", "total_points"}); err != nil {
		return "", err
	}
	for _, entry := range entries {
		record := []string{
			entry.SongTitle,
			entry.Artist,
			entry.Album,
			strconv.Itoa(entry.Year),
			strconv.Itoa(entry.TotalPoints),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// writeOnce creates the file or fails when it already exists.
func writeOnce(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("write-once %s: %w", filepath.Base(path), err)
	}
	defer file.Close()
	_, err = file.Write(data)
	return err
}
