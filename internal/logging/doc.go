// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

/*
Package logging provides centralized zerolog-based logging for playlistpop.

# Quick Start

	logging.Init(logging.Config{
	    Level:  "info",
	    Format: "json",
	})

	logging.Warn().Err(err).Str("archive", path).Msg("Error closing archive")
	logging.Error().Err(err).Msg("Command failed")

# Run Context

Every CLI invocation gets a short run ID. Stages tag their context so each
line can be traced back to one run and one stage:

	ctx = logging.ContextWithNewRunID(ctx)
	ctx = logging.ContextWithStage(ctx, "recommend")
	logging.CtxInfo(ctx).Int("playlists", n).Msg("Recommendations generated")

# Configuration

Environment Variables (read by the config package):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: console)
  - LOG_CALLER: true/false (default: false)

# Third-party Loggers

BadgerLogger adapts BadgerDB's printf-style logger so database messages use
the same output and level filtering as the rest of the pipeline.

# Best Practices

Always terminate log chains with .Msg() or .Send():

	logging.CtxInfo(ctx).Str("key", "value").Msg("message")  // Correct
	logging.CtxInfo(ctx).Str("key", "value")                 // WRONG - log not emitted
*/
package logging
