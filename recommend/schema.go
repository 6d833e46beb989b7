// Package recommend implements the recommendation pipeline core: the shared
// response schema, the per-provider requesters, the concurrent fan-out and
// the consensus aggregation.
package recommend

import (
	"fmt"
	"time"
)

// Provider identifies one of the queried model services.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
)

// Providers lists every provider in fan-out order.
var Providers = []Provider{ProviderAnthropic, ProviderOpenAI, ProviderGoogle}

// Recommendation is one ranked song in a provider response. Rank K marks the
// strongest recommendation, rank 1 the weakest.
type Recommendation struct {
	Rank      int    `json:"rank"`
	SongTitle string `json:"song_title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Year      int    `json:"year"`
	Reason    string `json:"reason"`
}

// Response is the structured object every provider must return.
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// ProviderResult is one provider's validated response, written once and read
// only afterwards.
type ProviderResult struct {
	Provider        Provider         `json:"provider"`
	Recommendations []Recommendation `json:"recommendations"`
	CapturedAt      time.Time        `json:"captured_at"`
}

// Validate checks the response against the fixed schema: exactly k items
// whose ranks cover 1..k with no gaps or duplicates. Anything else is a
// schema violation and fails the call rather than being silently accepted.
func (r *Response) Validate(k int) error {
	if len(r.Recommendations) != k {
		return fmt.Errorf("expected %d recommendations, got %d", k, len(r.Recommendations))
	}
	seen := make(map[int]bool, k)
	for _, rec := range r.Recommendations {
		if rec.Rank < 1 || rec.Rank > k {
			return fmt.Errorf("rank %d out of range 1..%d", rec.Rank, k)
		}
		if seen[rec.Rank] {
			return fmt.Errorf("duplicate rank %d", rec.Rank)
		}
		seen[rec.Rank] = true
	}
	return nil
}
