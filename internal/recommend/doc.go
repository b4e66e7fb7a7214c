// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

// Package recommend implements count-based popularity recommendations for
// playlist continuation.
//
// # Pipeline
//
// The package covers the three algorithmic stages of the batch job:
//
//   - Ingestion: IncidenceBuilder consumes playlist records and, through an
//     Interner, turns track URIs into dense column indexes. The result is a
//     SparseMatrix of (playlist row, track column, value) triples.
//   - Aggregation: Rank sums the matrix by column and joins the counts back
//     through the sealed Vocabulary into a Ranking.
//   - Generation: Recommend scans the Ranking, skipping a playlist's seed
//     tracks, until exactly k tracks are collected. RecommendAll fans this out
//     over many playlists.
//
// # Determinism
//
// Columns are assigned in first-seen order and the ranking breaks count ties
// by ascending column, so identical input always yields an identical ranking.
// A ranking reloaded from a flat {track: count} document has lost interning
// order; RankingFromCounts breaks its ties by ascending track URI instead.
//
// # Duplicate tracks
//
// By default a track repeated inside one playlist is counted once
// (DuplicatePresence), so a track's count is the number of playlists that
// contain it. DuplicateCount counts every occurrence.
//
// # Thread Safety
//
// Interner.Intern is safe for concurrent use. IncidenceBuilder is driven by a
// single ingestion pass. Vocabulary and Ranking are immutable and may be
// shared freely; Recommend is a pure function.
//
// # Usage
//
//	b := recommend.NewIncidenceBuilder(recommend.BuilderConfig{})
//	for i, p := range playlists {
//	    if err := b.Add(&p, "mpd.slice.0-999.json", i); err != nil {
//	        return err
//	    }
//	}
//	m, vocab, err := b.Build()
//	ranking, err := recommend.Rank(m, vocab)
//	tracks, err := recommend.Recommend(recommend.NewPlaylistSeedSet(pid, seeds...), ranking, 500)
package recommend
