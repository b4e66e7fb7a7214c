// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package recommend

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"
)

// DefaultK is the number of recommendations per playlist in a submission.
const DefaultK = 500

// PlaylistSeedSet is the set of tracks already present in a query playlist.
// An empty set is valid. It is read-only once extracted.
type PlaylistSeedSet struct {
	PlaylistID int
	Tracks     map[string]struct{}
}

// NewPlaylistSeedSet builds a seed set from track URIs. Repeats are collapsed.
func NewPlaylistSeedSet(pid int, tracks ...string) PlaylistSeedSet {
	set := make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		set[t] = struct{}{}
	}
	return PlaylistSeedSet{PlaylistID: pid, Tracks: set}
}

// Contains reports whether uri is a seed of the playlist.
func (s PlaylistSeedSet) Contains(uri string) bool {
	_, ok := s.Tracks[uri]
	return ok
}

// Recommend returns the first k ranked tracks that are not seeds, in ranking
// order. It is a pure function of its inputs.
//
// If the ranking runs out before k candidates are found it returns an
// *InsufficientCandidatesError; a shorter list is never returned.
func Recommend(seed PlaylistSeedSet, ranking Ranking, k int) ([]string, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	out := make([]string, 0, min(k, ranking.Len()))
	for i := 0; i < ranking.Len() && len(out) < k; i++ {
		uri := ranking.at(i)
		if seed.Contains(uri) {
			continue
		}
		out = append(out, uri)
	}

	if len(out) < k {
		return nil, &InsufficientCandidatesError{PlaylistID: seed.PlaylistID, Want: k, Got: len(out)}
	}
	return out, nil
}

// BatchOptions controls RecommendAll.
type BatchOptions struct {
	// K is the number of recommendations per playlist. Zero means DefaultK.
	K int

	// Workers bounds the number of playlists processed concurrently.
	// Zero or negative means one.
	Workers int

	// SkipInsufficient drops playlists whose ranking is exhausted and records
	// them in BatchResult.Skipped. When false the batch aborts on the first one.
	SkipInsufficient bool
}

// BatchResult holds the output of RecommendAll.
type BatchResult struct {
	// Recommendations maps playlist id to exactly K track URIs.
	Recommendations map[int][]string

	// Skipped lists playlist ids dropped for insufficient candidates, ascending.
	Skipped []int
}

// RecommendAll runs Recommend for every seed set in parallel against one
// shared ranking. Cancellation is checked between playlists.
//
// Duplicate playlist ids in seeds are rejected with a *MalformedRecordError
// since the submission has one line per playlist.
func RecommendAll(ctx context.Context, seeds []PlaylistSeedSet, ranking Ranking, opts BatchOptions) (*BatchResult, error) {
	k := opts.K
	if k == 0 {
		k = DefaultK
	}
	if k < 0 {
		return nil, ErrInvalidK
	}

	seen := make(map[int]struct{}, len(seeds))
	for i, s := range seeds {
		if _, dup := seen[s.PlaylistID]; dup {
			return nil, &MalformedRecordError{Index: i, PlaylistID: s.PlaylistID, HasPID: true, Field: "pid", Reason: "appears more than once"}
		}
		seen[s.PlaylistID] = struct{}{}
	}

	lists := make([][]string, len(seeds))
	skipped := make([]bool, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))

	for i := range seeds {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := Recommend(seeds[i], ranking, k)
			if err != nil {
				var insufficient *InsufficientCandidatesError
				if opts.SkipInsufficient && errors.As(err, &insufficient) {
					skipped[i] = true
					return nil
				}
				return err
			}
			lists[i] = recs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &BatchResult{Recommendations: make(map[int][]string, len(seeds))}
	for i, s := range seeds {
		if skipped[i] {
			result.Skipped = append(result.Skipped, s.PlaylistID)
			continue
		}
		result.Recommendations[s.PlaylistID] = lists[i]
	}
	slices.Sort(result.Skipped)

	return result, nil
}
