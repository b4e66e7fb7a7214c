// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

// Package storage persists ingested incidence matrices between pipeline runs.
//
// Ingesting the full playlist archive is the slowest stage of the pipeline.
// The ingest command saves its result here so that rank can run against it
// without re-reading the archive.
//
// # Overview
//
// The storage system provides:
//   - Gob serialization of the matrix triples, shape and column-ordered track URIs
//   - Gzip compression (github.com/klauspost/compress/gzip)
//   - SHA-256 checksums verified on every load
//   - Monotonic version numbers per artifact name
//   - Pruning of old versions
//
// # Storage Format
//
//	filename: {name}_v{version}.gob
//
//	structure:
//	  - Metadata (source archive, counts, checksum, sizes)
//	  - CompressedData (gzip-compressed gob-encoded IncidenceArtifact)
//
// Files are written to a temporary name and renamed into place.
//
// # Usage Example
//
//	store, err := storage.NewStore("/data/artifacts")
//	art, err := storage.NewIncidenceArtifact(m, vocab, builderCfg)
//	meta, err := store.Save(ctx, "incidence", art, storage.Metadata{Source: archivePath})
//
//	art, meta, err = store.Load(ctx, "incidence", 0) // 0 = latest version
//	m, vocab, err := art.Matrix()
//
// # Directory Structure
//
//	/data/artifacts/
//	  incidence_v1.gob
//	  incidence_v2.gob   <- latest
package storage
