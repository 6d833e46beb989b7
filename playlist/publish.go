// Package playlist publishes a consensus ranking to an external media
// platform. Resolution and add failures are per-item and non-fatal; only a
// failed playlist creation aborts the component, and even that never crashes
// the surrounding session.
package playlist

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lexcodex/tunecouncil/recommend"
)

// Platform is the narrow contract the publisher needs from a media service.
// SearchMedia returns an empty ID when nothing matched.
type Platform interface {
	CreatePlaylist(ctx context.Context, name, description string) (string, error)
	SearchMedia(ctx context.Context, title, artist string) (string, error)
	AddToPlaylist(ctx context.Context, playlistID, mediaID string) error
}

// FailedTrack identifies one entry that could not be published.
type FailedTrack struct {
	SongTitle string `json:"song_title"`
	Artist    string `json:"artist"`
}

// Outcome is the publisher's final report for a session. PlaylistID is empty
// when creation itself failed.
type Outcome struct {
	PlaylistID string        `json:"playlist_id"`
	Added      int           `json:"added"`
	Failed     []FailedTrack `json:"failed"`
}

// Publisher drives the resolve-and-add loop for the top consensus entries.
type Publisher struct {
	Platform Platform
	// CallTimeout bounds each individual platform round-trip.
	CallTimeout time.Duration
	Logger      *zap.Logger
}

// Publish creates a playlist and fills it with the top n entries. A playlist
// with 14 of 20 songs added is a success, not an error: misses accumulate in
// the outcome's failure list and the loop keeps going. The returned error is
// non-nil only when the playlist container itself could not be created.
func (p *Publisher) Publish(ctx context.Context, name, description string, entries []recommend.ConsensusEntry, topN int) (*Outcome, error) {
	createCtx, cancel := context.WithTimeout(ctx, p.CallTimeout)
	playlistID, err := p.Platform.CreatePlaylist(createCtx, name, description)
	cancel()
	if err != nil {
		return &Outcome{}, fmt.Errorf("create playlist %q: %w", name, err)
	}
	p.Logger.Info("playlist created", zap.String("name", name), zap.String("id", playlistID))

	outcome := &Outcome{PlaylistID: playlistID}
	for _, entry := range recommend.Top(entries, topN) {
		if ctx.Err() != nil {
			break
		}
		if p.addEntry(ctx, playlistID, entry) {
			outcome.Added++
		} else {
			outcome.Failed = append(outcome.Failed, FailedTrack{
				SongTitle: entry.SongTitle,
				Artist:    entry.Artist,
			})
		}
	}
	return outcome, nil
}

// addEntry resolves one entry to a media ID and adds it to the playlist.
// Both steps are individually bounded and individually non-fatal.
func (p *Publisher) addEntry(ctx context.Context, playlistID string, entry recommend.ConsensusEntry) bool {
	searchCtx, cancel := context.WithTimeout(ctx, p.CallTimeout)
	mediaID, err := p.Platform.SearchMedia(searchCtx, entry.SongTitle, entry.Artist)
	cancel()
	if err != nil || mediaID == "" {
		p.Logger.Warn("no media found",
			zap.String("title", entry.SongTitle),
			zap.String("artist", entry.Artist),
			zap.Error(err))
		return false
	}
	addCtx, cancel := context.WithTimeout(ctx, p.CallTimeout)
	err = p.Platform.AddToPlaylist(addCtx, playlistID, mediaID)
	cancel()
	if err != nil {
		p.Logger.Warn("failed to add media",
			zap.String("title", entry.SongTitle),
			zap.String("media_id", mediaID),
			zap.Error(err))
		return false
	}
	return true
}
