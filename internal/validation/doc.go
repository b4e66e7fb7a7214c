// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator (struct info is cached after the
// first call) and translates field errors into short messages. Field names are
// taken from koanf tags, so a failing configuration reports the key a user
// would set in YAML:
//
//	type SubmissionConfig struct {
//	    TeamName string `koanf:"team_name" validate:"required"`
//	}
//
//	if verr := validation.ValidateStruct(cfg); verr != nil {
//	    return fmt.Errorf("invalid configuration: %w", verr)
//	}
//	// invalid configuration: submission.team_name is required
package validation
