package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexcodex/tunecouncil/collect"
	"github.com/lexcodex/tunecouncil/config"
	"github.com/lexcodex/tunecouncil/llm"
	"github.com/lexcodex/tunecouncil/persistence"
	"github.com/lexcodex/tunecouncil/playlist"
	"github.com/lexcodex/tunecouncil/recommend"
)

// scriptedPrompter replays a fixed sequence of user answers.
type scriptedPrompter struct {
	answers []string
	next    int
}

func (p *scriptedPrompter) Ask(prompt string) (string, error) {
	if p.next >= len(p.answers) {
		return "", fmt.Errorf("no scripted answer for %q", prompt)
	}
	answer := p.answers[p.next]
	p.next++
	return answer, nil
}

type acceptAllValidator struct{}

func (acceptAllValidator) Validate(ctx context.Context, attribute, input string) bool { return true }

// cannedCompleter returns one fixed body for every call.
type cannedCompleter struct {
	text string
	err  error
}

func (c *cannedCompleter) Complete(ctx context.Context, system, user string, options *llm.Options) (string, error) {
	return c.text, c.err
}

type fakePlatform struct {
	created string
	added   int
}

func (f *fakePlatform) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	f.created = name
	return "PLtest", nil
}

func (f *fakePlatform) SearchMedia(ctx context.Context, title, artist string) (string, error) {
	return "vid-" + title, nil
}

func (f *fakePlatform) AddToPlaylist(ctx context.Context, playlistID, mediaID string) error {
	f.added++
	return nil
}

func recommendationsJSON(k, offset int) string {
	resp := recommend.Response{}
	for i := 1; i <= k; i++ {
		resp.Recommendations = append(resp.Recommendations, recommend.Recommendation{
			Rank:      i,
			SongTitle: fmt.Sprintf("Song %d", i+offset),
			Artist:    "Artist",
			Album:     "Album",
			Year:      2010 + i,
		})
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func newTestRunner(t *testing.T, cfg *config.Config, providers map[recommend.Provider]llm.Completer) (*Runner, *fakePlatform, *bytes.Buffer) {
	t.Helper()
	logger := zap.NewNop()
	stamp := persistence.SessionStamp(time.Now())
	artifacts, err := persistence.NewArtifactStore(t.TempDir(), stamp)
	require.NoError(t, err)

	var requesters []*recommend.Requester
	for _, provider := range recommend.Providers {
		requesters = append(requesters, &recommend.Requester{
			Provider:  provider,
			Client:    providers[provider],
			Model:     "test-model",
			Songs:     cfg.Songs,
			Timeout:   time.Second,
			Artifacts: artifacts,
			Logger:    logger,
		})
	}

	platform := &fakePlatform{}
	out := &bytes.Buffer{}
	runner := &Runner{
		Config:     cfg,
		Logger:     logger,
		Validator:  acceptAllValidator{},
		Requesters: requesters,
		Namer: &recommend.Namer{
			Client:  &cannedCompleter{text: "Test Mix"},
			Model:   "test-model",
			Timeout: time.Second,
			Logger:  logger,
		},
		Publisher: &playlist.Publisher{Platform: platform, CallTimeout: time.Second, Logger: logger},
		Artifacts: artifacts,
		Out:       out,
	}
	return runner, platform, out
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Songs = 3
	cfg.PlaylistTopN = 3
	cfg.SongAttributes = []string{"genre", "language"}
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig()
	body := recommendationsJSON(cfg.Songs, 0)
	runner, platform, out := newTestRunner(t, cfg, map[recommend.Provider]llm.Completer{
		recommend.ProviderAnthropic: &cannedCompleter{text: body},
		recommend.ProviderOpenAI:    &cannedCompleter{text: body},
		recommend.ProviderGoogle:    &cannedCompleter{text: body},
	})
	runner.Prompter = &scriptedPrompter{answers: []string{"synthwave", "English"}}

	require.NoError(t, runner.Run(context.Background()))

	assert.Equal(t, "Test Mix", platform.created)
	assert.Equal(t, cfg.Songs, platform.added)
	assert.Contains(t, out.String(), "Consensus ranking")
	assert.Contains(t, out.String(), "Song 1")

	// All three provider artifacts plus the consensus CSV got written.
	files, err := os.ReadDir(runner.Artifacts.Dir())
	require.NoError(t, err)
	assert.Len(t, files, 4)
}

func TestRunSurvivesOneProviderFailure(t *testing.T) {
	cfg := testConfig()
	body := recommendationsJSON(cfg.Songs, 0)
	runner, platform, out := newTestRunner(t, cfg, map[recommend.Provider]llm.Completer{
		recommend.ProviderAnthropic: &cannedCompleter{text: body},
		recommend.ProviderOpenAI:    &cannedCompleter{err: fmt.Errorf("rate limited")},
		recommend.ProviderGoogle:    &cannedCompleter{text: body},
	})
	runner.Prompter = &scriptedPrompter{answers: []string{"synthwave", "English"}}

	require.NoError(t, runner.Run(context.Background()))
	assert.Contains(t, out.String(), "openai returned no usable result")
	assert.Equal(t, cfg.Songs, platform.added)
}

func TestRunFailsWhenEveryProviderFails(t *testing.T) {
	cfg := testConfig()
	failing := &cannedCompleter{err: fmt.Errorf("service unavailable")}
	runner, _, _ := newTestRunner(t, cfg, map[recommend.Provider]llm.Completer{
		recommend.ProviderAnthropic: failing,
		recommend.ProviderOpenAI:    failing,
		recommend.ProviderGoogle:    failing,
	})
	runner.Prompter = &scriptedPrompter{answers: []string{"synthwave", "English"}}

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every provider failed")
}

func TestRunRecordsSessionInCatalog(t *testing.T) {
	cfg := testConfig()
	body := recommendationsJSON(cfg.Songs, 0)
	runner, _, _ := newTestRunner(t, cfg, map[recommend.Provider]llm.Completer{
		recommend.ProviderAnthropic: &cannedCompleter{text: body},
		recommend.ProviderOpenAI:    &cannedCompleter{text: body},
		recommend.ProviderGoogle:    &cannedCompleter{text: body},
	})
	runner.Prompter = &scriptedPrompter{answers: []string{"synthwave", "English"}}

	catalog, err := persistence.OpenSessionCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer catalog.Close()
	runner.Catalog = catalog

	require.NoError(t, runner.Run(context.Background()))

	records, err := catalog.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "PLtest", records[0].PlaylistID)
	assert.Equal(t, cfg.Songs, records[0].Added)
}

func TestCollectAttributesAssemblesFinalPrompt(t *testing.T) {
	cfg := testConfig()
	runner, _, _ := newTestRunner(t, cfg, nil)
	runner.Prompter = &scriptedPrompter{answers: []string{"synthwave", "English"}}

	prompt, err := runner.collectAttributes(context.Background())
	require.NoError(t, err)
	expected := collect.Render(cfg.Songs, collect.Specs(cfg.SongAttributes), map[string]string{
		"genre":    "synthwave",
		"language": "English",
	})
	assert.Equal(t, expected, prompt)
}

func TestCollectAttributesStopsOnCancelledContext(t *testing.T) {
	cfg := testConfig()
	runner, _, _ := newTestRunner(t, cfg, nil)
	runner.Prompter = &scriptedPrompter{answers: []string{"synthwave", "English"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runner.collectAttributes(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
