package recommend

import (
	"errors"
	"sort"
)

// Key is the exact identity of a song across providers. Matching is strict
// string/integer equality: "feat." and "ft." spellings from different
// providers count as distinct entries. Known limitation, kept deliberately
// instead of guessing at fuzzy matching.
type Key struct {
	SongTitle string `json:"song_title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Year      int    `json:"year"`
}

// ConsensusEntry is one aggregated song with the summed rank contributions
// of every provider that recommended it.
type ConsensusEntry struct {
	Key
	TotalPoints int `json:"total_points"`
}

// ErrNoResults is fatal: a consensus of zero providers is meaningless.
var ErrNoResults = errors.New("no provider results to aggregate")

// Aggregate flattens the available provider results, groups items by exact
// identity key, sums ranks into total points and sorts descending by points.
// Ties keep first-seen group order (stable sort over provider-call order),
// which makes the output deterministic for a given input sequence. Fewer
// than three results is fine - a consensus of two is still meaningful - but
// zero results is an error. Nil slots from a partial fan-out are skipped.
func Aggregate(results []*ProviderResult) ([]ConsensusEntry, error) {
	totals := make(map[Key]int)
	var order []Key
	available := 0
	for _, result := range results {
		if result == nil {
			continue
		}
		available++
		for _, rec := range result.Recommendations {
			key := Key{
				SongTitle: rec.SongTitle,
				Artist:    rec.Artist,
				Album:     rec.Album,
				Year:      rec.Year,
			}
			if _, seen := totals[key]; !seen {
				order = append(order, key)
			}
			totals[key] += rec.Rank
		}
	}
	if available == 0 {
		return nil, ErrNoResults
	}
	entries := make([]ConsensusEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, ConsensusEntry{Key: key, TotalPoints: totals[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	return entries, nil
}

// Top returns the first n entries, or all of them when fewer exist.
func Top(entries []ConsensusEntry, n int) []ConsensusEntry {
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n]
}
