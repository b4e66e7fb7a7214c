// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

// Package main is the entry point for the playlistpop command.
//
// playlistpop ranks tracks by how many training playlists contain them and
// recommends the most popular tracks a query playlist does not already hold.
//
// # Commands
//
//	playlistpop ingest     # training archive -> incidence artifact
//	playlistpop rank       # latest artifact -> popularity ranking
//	playlistpop recommend  # ranking + query playlists -> submission file
//	playlistpop run        # all three stages in one process
//	playlistpop artifacts  # list stored incidence artifacts
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (TRAIN_ZIP_PATH, TEAM_NAME, NUM_RECOMMENDATIONS, ...)
//   - Config file (--config, CONFIG_PATH, or playlistpop.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the running stage between records or playlists.
// Partially written outputs are never published.
//
// # Example Usage
//
//	export TEAM_NAME=EXP
//	export CONTACT_EMAIL=team@example.com
//	./playlistpop --config playlistpop.yaml run
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/playlistpop/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp().RunContext(ctx, os.Args)
	stop()
	if err != nil {
		logging.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
