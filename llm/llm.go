// Package llm contains thin HTTP clients for the chat-completion providers
// the pipeline queries. Each client implements the same Completer interface
// so orchestration code never branches on the provider.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Options tunes a single completion call. Zero values mean "use the client
// default" for every field.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Completer is the minimal capability every provider client offers: run one
// system+user exchange and return the assistant text.
type Completer interface {
	Complete(ctx context.Context, system, user string, options *Options) (string, error)
}

// ModelLister enumerates the models a provider account can use.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// ErrMalformedResponse marks a structured completion whose body could not be
// decoded into the requested schema. Callers treat it as a schema violation,
// never as an empty result.
var ErrMalformedResponse = errors.New("malformed structured response")

// CompleteStructured runs a completion and decodes the response as strict
// JSON into out. Models occasionally wrap JSON in markdown fences or prose;
// the decoder tolerates that wrapping but nothing else.
func CompleteStructured(ctx context.Context, c Completer, system, user string, options *Options, out interface{}) error {
	text, err := c.Complete(ctx, system, user, options)
	if err != nil {
		return err
	}
	payload := extractJSON(text)
	if payload == "" {
		return fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// extractJSON isolates the outermost JSON object in a completion. Returns ""
// when the text contains no object at all.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}

const defaultTimeout = 3 * time.Minute

// newHTTPClient builds the per-provider HTTP client with a hard timeout as a
// backstop behind context deadlines.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// decodeError turns a non-2xx response into an error carrying a bounded
// slice of the body, which is where every provider puts its diagnostics.
func decodeError(provider string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(msg))
	if detail != "" {
		return fmt.Errorf("%s error: %s: %s", provider, resp.Status, detail)
	}
	return fmt.Errorf("%s error: %s", provider, resp.Status)
}
