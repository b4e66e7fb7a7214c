// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package recommend

import (
	"cmp"
	"slices"
)

// PopularityEntry is one track of the global ranking.
type PopularityEntry struct {
	TrackURI string `json:"track_uri"`
	Count    int    `json:"count"`
}

// Ranking is the global popularity ranking: entries sorted by count
// descending with a fixed tie-break. It is immutable after construction and
// may be shared across goroutines.
type Ranking struct {
	entries []PopularityEntry
}

// NewRanking wraps entries that are already in ranking order, e.g. when they
// are read back from an order-preserving store. The slice is copied.
func NewRanking(entries []PopularityEntry) Ranking {
	return Ranking{entries: slices.Clone(entries)}
}

// Rank computes the popularity ranking of every track in the vocabulary.
//
// Counts come from the matrix column sums. Tracks with a zero count are
// omitted. Ties are broken by ascending column, i.e. first-seen order during
// ingestion, so the ranking is reproducible for identical input.
func Rank(m *SparseMatrix, v *Vocabulary[string]) (Ranking, error) {
	if m.Shape().Cols != v.Len() {
		return Ranking{}, &ShapeMismatchError{MatrixCols: m.Shape().Cols, VocabularySize: v.Len()}
	}

	sums := m.ColumnSums()

	type scored struct {
		col   int
		count int
	}
	cols := make([]scored, 0, len(sums))
	for col, count := range sums {
		if count > 0 {
			cols = append(cols, scored{col: col, count: count})
		}
	}

	slices.SortFunc(cols, func(a, b scored) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.col, b.col)
	})

	entries := make([]PopularityEntry, len(cols))
	for i, s := range cols {
		uri, ok := v.Resolve(s.col)
		if !ok {
			return Ranking{}, &ShapeMismatchError{MatrixCols: m.Shape().Cols, VocabularySize: v.Len()}
		}
		entries[i] = PopularityEntry{TrackURI: uri, Count: s.count}
	}

	return Ranking{entries: entries}, nil
}

// RankingFromCounts re-derives a ranking from a flat {track: count} mapping
// whose key order carries no meaning. Ties are broken by ascending track URI
// because interning order is not recoverable from the flat form.
func RankingFromCounts(counts map[string]int) Ranking {
	entries := make([]PopularityEntry, 0, len(counts))
	for uri, count := range counts {
		if count > 0 {
			entries = append(entries, PopularityEntry{TrackURI: uri, Count: count})
		}
	}

	slices.SortFunc(entries, func(a, b PopularityEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.TrackURI, b.TrackURI)
	})

	return Ranking{entries: entries}
}

// Len returns the number of ranked tracks.
func (r Ranking) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the ranking.
func (r Ranking) Entries() []PopularityEntry {
	return slices.Clone(r.entries)
}

// Top returns a copy of the first n entries (fewer if the ranking is shorter).
func (r Ranking) Top(n int) []PopularityEntry {
	if n <= 0 {
		return nil
	}
	n = min(n, len(r.entries))
	return slices.Clone(r.entries[:n])
}

// Tracks returns the track URIs in ranking order.
func (r Ranking) Tracks() []string {
	out := make([]string, len(r.entries))
	for i := range r.entries {
		out[i] = r.entries[i].TrackURI
	}
	return out
}

// Counts returns the flat {track: count} form used for persistence.
func (r Ranking) Counts() map[string]int {
	out := make(map[string]int, len(r.entries))
	for _, e := range r.entries {
		out[e.TrackURI] = e.Count
	}
	return out
}

// at is the unchecked accessor used by the generator's scan.
func (r Ranking) at(i int) string {
	return r.entries[i].TrackURI
}

