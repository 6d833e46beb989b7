package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lexcodex/tunecouncil/llm"
)

// Namer derives a short playlist name from the collected attributes using
// the validator-class model. Naming is cosmetic, so any failure falls back
// to a deterministic date-stamped name instead of surfacing an error.
type Namer struct {
	Client  llm.Completer
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Name returns a playlist name for the given finalized request string.
func (n *Namer) Name(ctx context.Context, attributes string) string {
	ctx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()

	request := fmt.Sprintf(playlistNameRequestTemplate, attributes)
	text, err := n.Client.Complete(ctx, playlistNamePrompt, request, &llm.Options{Model: n.Model})
	if err != nil {
		n.Logger.Warn("playlist naming failed, using fallback", zap.Error(err))
		return fallbackPlaylistName()
	}
	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
	if name == "" {
		return fallbackPlaylistName()
	}
	return name
}

func fallbackPlaylistName() string {
	return "AI Music Picks " + time.Now().Format("2006-01-02")
}
