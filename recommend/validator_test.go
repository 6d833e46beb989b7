package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lexcodex/tunecouncil/llm"
)

type recordingCompleter struct {
	text   string
	err    error
	called int
	user   string
}

func (r *recordingCompleter) Complete(ctx context.Context, system, user string, options *llm.Options) (string, error) {
	r.called++
	r.user = user
	if r.err != nil {
		return "", r.err
	}
	return r.text, nil
}

func newTestValidator(c llm.Completer) *InputValidator {
	return NewInputValidator(c, "gpt-4o-mini", time.Second, zap.NewNop())
}

func TestValidatorAcceptsOnPositiveVerdict(t *testing.T) {
	client := &recordingCompleter{text: "1"}
	v := newTestValidator(client)
	assert.True(t, v.Validate(context.Background(), "genre", "melodic techno"))
	assert.Equal(t, 1, client.called)
	assert.Contains(t, client.user, "melodic techno")
}

func TestValidatorRejectsOnNegativeVerdict(t *testing.T) {
	v := newTestValidator(&recordingCompleter{text: "0"})
	assert.False(t, v.Validate(context.Background(), "genre", "asdfgh"))
}

func TestValidatorFailsOpenOnTransportError(t *testing.T) {
	v := newTestValidator(&recordingCompleter{err: errors.New("connection refused")})
	assert.True(t, v.Validate(context.Background(), "language", "anything"))
}

func TestValidatorFailsOpenOnUnexpectedVerdict(t *testing.T) {
	// Anything other than an exact "1" counts as rejection, not an error.
	v := newTestValidator(&recordingCompleter{text: "yes, this looks like a genre"})
	assert.False(t, v.Validate(context.Background(), "genre", "jazz"))
}

func TestValidatorAcceptsUnknownAttribute(t *testing.T) {
	client := &recordingCompleter{text: "0"}
	v := newTestValidator(client)
	// No validation prompt exists for this attribute, so no call is made.
	assert.True(t, v.Validate(context.Background(), "mood", "wistful"))
	assert.Zero(t, client.called)
}
