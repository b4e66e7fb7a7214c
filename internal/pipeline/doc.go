// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

/*
Package pipeline wires the ingest, rank and recommend stages together.

# Stages

  - Ingest: training archive → IncidenceBuilder → versioned incidence artifact
  - Rank: latest artifact → popularity ranking → ranking store
  - Recommend: ranking store + query playlists → validated submission file
  - Run: all three in one process, handing the in-memory ranking forward

Each stage tags its context with a stage name, so every log line carries
run_id and stage fields. A failing stage increments
playlistpop_stage_errors_total with a bounded error kind.

# Usage

	p := pipeline.New(cfg)
	ctx = logging.ContextWithNewRunID(ctx)
	if _, err := p.Run(ctx); err != nil {
	    return err
	}
*/
package pipeline
