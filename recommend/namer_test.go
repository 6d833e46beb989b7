package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestNamer(c *recordingCompleter) *Namer {
	return &Namer{Client: c, Model: "gpt-4o-mini", Timeout: time.Second, Logger: zap.NewNop()}
}

func TestNamerTrimsQuotes(t *testing.T) {
	n := newTestNamer(&recordingCompleter{text: "\"Midnight Drive Mix\"\n"})
	assert.Equal(t, "Midnight Drive Mix", n.Name(context.Background(), "genre: synthwave"))
}

func TestNamerFallsBackOnError(t *testing.T) {
	n := newTestNamer(&recordingCompleter{err: errors.New("timeout")})
	name := n.Name(context.Background(), "genre: synthwave")
	assert.Contains(t, name, "AI Music Picks")
}

func TestNamerFallsBackOnEmptyAnswer(t *testing.T) {
	n := newTestNamer(&recordingCompleter{text: "  \"\"  "})
	name := n.Name(context.Background(), "genre: synthwave")
	assert.Contains(t, name, "AI Music Picks")
}
