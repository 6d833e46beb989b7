package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runPreview(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newPreviewCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPreviewMissingFile(t *testing.T) {
	_, err := runPreview(t, filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPreviewUnsupportedExtension(t *testing.T) {
	path := writeArtifact(t, "notes.txt", "hello")
	_, err := runPreview(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestPreviewProviderJSON(t *testing.T) {
	path := writeArtifact(t, "anthropic_response.json",
		`{"provider":"anthropic","recommendations":[{"rank":1,"song_title":"Mirrors"},{"rank":2,"song_title":"Cry Me a River"}]}`)
	out, err := runPreview(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Mirrors")
	assert.Contains(t, out, "Summary: 2 recommendations found")
}

func TestPreviewMalformedJSON(t *testing.T) {
	path := writeArtifact(t, "broken.json", `{"recommendations": [`)
	_, err := runPreview(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestPreviewConsensusCSV(t *testing.T) {
	path := writeArtifact(t, "final_recommendations.csv",
		"song_title,artist,album,year,total_points\nMirrors,Justin Timberlake,The 20/20 Experience,2013,27\n")
	out, err := runPreview(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Mirrors")
	assert.Contains(t, out, "1 rows × 5 columns")
}

func TestPreviewEmptyCSV(t *testing.T) {
	path := writeArtifact(t, "empty.csv", "")
	_, err := runPreview(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestPreviewRequiresExactlyOneArg(t *testing.T) {
	var err error
	assert.NotPanics(t, func() {
		cmd := newPreviewCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{})
		err = cmd.Execute()
	})
	assert.Error(t, err)
}
