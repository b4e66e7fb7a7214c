// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

/*
Package models defines the playlist dataset records consumed by the pipeline.

Key Components:

  - Slice: one JSON file of the dataset archive ({"info": ..., "playlists": [...]})
  - Playlist: a playlist record with its pid and ordered track list
  - Track: a track entry; only track_uri is required downstream

Records are decoded with github.com/goccy/go-json. Required-field checks
(pid present, non-empty track_uri) happen in the ingestion layer so that
errors can name the archive member and record index.

Usage Example:

	var slice models.Slice
	if err := json.Unmarshal(data, &slice); err != nil {
	    return err
	}
	for _, p := range slice.Playlists {
	    pid, ok := p.ID()
	    ...
	}
*/
package models
