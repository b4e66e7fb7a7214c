// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

// Package rankstore persists the global popularity ranking between the rank
// and recommend stages.
//
// Two backends are available, selected by store.backend:
//
//   - file: a flat {track_uri: count} JSON object (github.com/goccy/go-json),
//     gzip-compressed when the path ends in ".gz". Key order is not kept, so
//     on load the ranking is re-sorted by count descending and then by track
//     URI ascending. Ties can therefore come back in a different order than
//     the in-memory ranking, which broke them by first-seen order.
//   - badger: a BadgerDB directory holding one key per rank position. The
//     in-memory order, tie-breaks included, is reproduced exactly.
//
// Usage:
//
//	store, err := rankstore.Open(rankstore.BackendFile, "popularity.json.gz")
//	defer store.Close()
//	err = store.Save(ctx, ranking)
//	ranking, err = store.Load(ctx)
package rankstore
