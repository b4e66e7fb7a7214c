// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

// Package playlistimport reads Million Playlist Dataset style archives.
//
// A training archive is a zip of JSON slice files, each holding an "info"
// header and a "playlists" array. The Importer streams every playlist of
// every matching member into a RecordSink (normally a
// recommend.IncidenceBuilder) in a single pass.
//
// # Ordering
//
// Members are read in lexical name order, and records in file order. Track
// columns are assigned in first-seen order, so the same archive always
// yields the same matrix regardless of how the zip was written.
//
// # Failure Handling
//
// Ingestion stops at the first malformed record or undecodable member and
// returns a *recommend.MalformedRecordError naming the member, the record
// index and the pid when known. A partial matrix is never returned.
//
// # Query Playlists
//
// ReadSeeds extracts the seed tracks of each query playlist from a single
// member of the test archive. Playlists without a "tracks" key are valid
// and yield an empty seed set.
//
// # Example Usage
//
//	builder := recommend.NewIncidenceBuilder(cfg.Ingest.BuilderConfig())
//	importer := playlistimport.NewImporter(playlistimport.Options{
//	    MemberPattern: "*.json",
//	    ProgressEvery: 50,
//	}, builder)
//
//	stats, err := importer.ImportFile(ctx, "./dataset/spotify_train_dataset.zip")
//	if err != nil {
//	    return err
//	}
//	matrix, vocab, err := builder.Build()
package playlistimport
