// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

// Package submission writes and checks challenge submission files.
//
// The format is line oriented and compared byte for byte by graders:
//
//	team_info,EXP,team@example.com
//	1000,spotify:track:a,spotify:track:b,...
//	1001,spotify:track:c,...
//
// Validate reports lists of the wrong length, repeated tracks, seed overlap
// and missing or unknown playlists as a *ValidationWarning. It never repairs
// data; the caller decides whether a warning is fatal.
package submission
