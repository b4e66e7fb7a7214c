// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

/*
Package metrics provides Prometheus instrumentation for the pipeline.

The pipeline is a batch job, so nothing is scraped. Each command calls
WriteTextfile when METRICS_TEXTFILE_PATH is set and node_exporter's textfile
collector picks the file up.

# Available Metrics

Ingest:
  - playlistpop_ingest_playlists_total: playlist records ingested (counter)
  - playlistpop_ingest_empty_playlists_total: records with no tracks (counter)
  - playlistpop_ingest_track_occurrences_total: track entries read (counter)
  - playlistpop_ingest_duplicate_tracks_total: coalesced repeats (counter)
  - playlistpop_ingest_archive_members_total: slice files read (counter)
  - playlistpop_vocabulary_tracks: distinct tracks (gauge)
  - playlistpop_matrix_rows: incidence matrix rows (gauge)
  - playlistpop_artifact_bytes: saved artifact size (gauge)

Ranking:
  - playlistpop_ranking_tracks: ranked tracks (gauge)
  - playlistpop_ranking_top_count: count of the most popular track (gauge)

Recommendations and submission:
  - playlistpop_recommendations_total: playlists by result (counter)
    Labels: result (ok, skipped)
  - playlistpop_submission_warnings_total: validation warnings (counter)
    Labels: kind (wrong_length, duplicate_track, seed_overlap)

Stages:
  - playlistpop_stage_duration_seconds: stage duration (histogram)
    Labels: stage (ingest, rank, recommend, submit)
  - playlistpop_stage_errors_total: failed stages (counter)
    Labels: stage, kind
  - playlistpop_stage_last_success_timestamp: last success (gauge)
    Labels: stage

# Usage

	start := time.Now()
	// ... ingest ...
	metrics.RecordIngest(metrics.IngestSummary{Playlists: n}, time.Since(start))

This package does not import other internal packages; callers translate
their own types into the Record* arguments.
*/
package metrics
