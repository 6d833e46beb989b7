package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lexcodex/tunecouncil/llm"
)

// ArtifactSaver persists one validated provider result per session. The
// store is write-once; a second save for the same provider must fail.
type ArtifactSaver interface {
	SaveProviderResult(result *ProviderResult) error
}

// Requester runs the recommendation call for a single provider.
type Requester struct {
	Provider    Provider
	Client      llm.Completer
	Model       string
	Songs       int
	Temperature float64
	Timeout     time.Duration
	Artifacts   ArtifactSaver
	Logger      *zap.Logger
}

// Request sends the finalized request string to the provider, validates the
// structured response against the fixed schema and persists it. Schema
// violations and transport errors propagate; an empty list is never
// substituted for a failed call.
func (r *Requester) Request(ctx context.Context, finalPrompt string) (*ProviderResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var response Response
	opts := &llm.Options{Model: r.Model, Temperature: r.Temperature}
	if err := llm.CompleteStructured(ctx, r.Client, RecommendationPrompt(r.Songs), finalPrompt, opts, &response); err != nil {
		return nil, fmt.Errorf("%s: %w", r.Provider, err)
	}
	if err := response.Validate(r.Songs); err != nil {
		return nil, fmt.Errorf("%s: schema violation: %w", r.Provider, err)
	}
	result := &ProviderResult{
		Provider:        r.Provider,
		Recommendations: response.Recommendations,
		CapturedAt:      time.Now().UTC(),
	}
	// Persist only after full validation so an aborted or malformed call
	// never leaves a partial artifact behind.
	if r.Artifacts != nil {
		if err := r.Artifacts.SaveProviderResult(result); err != nil {
			return nil, fmt.Errorf("%s: persist result: %w", r.Provider, err)
		}
	}
	r.Logger.Info("provider result captured",
		zap.String("provider", string(r.Provider)),
		zap.Int("recommendations", len(result.Recommendations)))
	return result, nil
}

// FanOut runs every requester concurrently against the same finalized
// request string and waits for all of them to complete or definitively fail
// before returning. Results keep requester order; errs[i] explains a nil
// results[i]. The group never short-circuits: each goroutine records its
// own error and returns nil so the join covers every launched call.
func FanOut(ctx context.Context, requesters []*Requester, finalPrompt string) ([]*ProviderResult, []error) {
	results := make([]*ProviderResult, len(requesters))
	errs := make([]error, len(requesters))

	g, ctx := errgroup.WithContext(ctx)
	for i, req := range requesters {
		i, req := i, req
		g.Go(func() error {
			res, err := req.Request(ctx, finalPrompt)
			if err != nil {
				req.Logger.Error("provider request failed",
					zap.String("provider", string(req.Provider)), zap.Error(err))
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// Join-all barrier: the aggregate must never read a result slot while
	// its goroutine is still running.
	_ = g.Wait()
	return results, errs
}
